package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	masterlistsIngested atomic.Int64
	recordsIngested     atomic.Int64
	dedupRunsCompleted  atomic.Int64
	dedupRunsRejected   atomic.Int64
	dedupRunsFailed     atomic.Int64
	duplicatePairsFound atomic.Int64
)

func ObserveIngest(records int) {
	masterlistsIngested.Add(1)
	recordsIngested.Add(int64(records))
}

func ObserveRunCompleted(pairs int) {
	dedupRunsCompleted.Add(1)
	duplicatePairsFound.Add(int64(pairs))
}

func ObserveRunRejected() {
	dedupRunsRejected.Add(1)
}

func ObserveRunFailed() {
	dedupRunsFailed.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP masterlist_ingested_total Number of masterlists ingested since start.\n")
	fmt.Fprintf(w, "# TYPE masterlist_ingested_total counter\n")
	fmt.Fprintf(w, "masterlist_ingested_total %d\n", masterlistsIngested.Load())

	fmt.Fprintf(w, "# HELP masterlist_records_ingested_total Number of records ingested since start.\n")
	fmt.Fprintf(w, "# TYPE masterlist_records_ingested_total counter\n")
	fmt.Fprintf(w, "masterlist_records_ingested_total %d\n", recordsIngested.Load())

	fmt.Fprintf(w, "# HELP masterlist_dedup_runs_completed_total Number of deduplication runs completed.\n")
	fmt.Fprintf(w, "# TYPE masterlist_dedup_runs_completed_total counter\n")
	fmt.Fprintf(w, "masterlist_dedup_runs_completed_total %d\n", dedupRunsCompleted.Load())

	fmt.Fprintf(w, "# HELP masterlist_dedup_runs_rejected_total Number of deduplication runs rejected as not eligible.\n")
	fmt.Fprintf(w, "# TYPE masterlist_dedup_runs_rejected_total counter\n")
	fmt.Fprintf(w, "masterlist_dedup_runs_rejected_total %d\n", dedupRunsRejected.Load())

	fmt.Fprintf(w, "# HELP masterlist_dedup_runs_failed_total Number of deduplication runs that aborted.\n")
	fmt.Fprintf(w, "# TYPE masterlist_dedup_runs_failed_total counter\n")
	fmt.Fprintf(w, "masterlist_dedup_runs_failed_total %d\n", dedupRunsFailed.Load())

	fmt.Fprintf(w, "# HELP masterlist_duplicate_pairs_found_total Number of duplicate pairs written by completed runs.\n")
	fmt.Fprintf(w, "# TYPE masterlist_duplicate_pairs_found_total counter\n")
	fmt.Fprintf(w, "masterlist_duplicate_pairs_found_total %d\n", duplicatePairsFound.Load())
}
