package masterlist

import (
	"time"

	"gorm.io/datatypes"
)

type Masterlist struct {
	ID                 uint64            `json:"id" gorm:"primaryKey;column:id"`
	OwnerID            string            `json:"owner_id" gorm:"column:owner_id;index"`
	IncidentName       string            `json:"incident_name" gorm:"column:incident_name"`
	OriginalFilename   string            `json:"original_filename" gorm:"column:original_filename"`
	Status             Status            `json:"status" gorm:"column:status;default:pending"`
	RecordCount        int               `json:"record_count" gorm:"column:record_count"`
	DuplicatePairCount int               `json:"duplicate_pair_count" gorm:"column:duplicate_pair_count"`
	Metadata           datatypes.JSONMap `json:"metadata,omitempty" gorm:"column:metadata"`
	CreatedAt          time.Time         `json:"created_at" gorm:"column:created_at"`
	UpdatedAt          time.Time         `json:"updated_at" gorm:"column:updated_at"`
}

type Record struct {
	ID           uint64     `json:"id" gorm:"primaryKey;column:id"`
	MasterlistID uint64     `json:"masterlist_id" gorm:"column:masterlist_id;index"`
	LastName     string     `json:"last_name" gorm:"column:last_name"`
	FirstName    string     `json:"first_name" gorm:"column:first_name"`
	MiddleName   *string    `json:"middle_name,omitempty" gorm:"column:middle_name"`
	ExtName      *string    `json:"ext_name,omitempty" gorm:"column:ext_name"`
	Birthday     *time.Time `json:"birthday,omitempty" gorm:"column:birthday;type:date"`
	RegionName   *string    `json:"region_name,omitempty" gorm:"column:region_name"`
	ProvinceName *string    `json:"province_name,omitempty" gorm:"column:province_name"`
	CityName     *string    `json:"city_name,omitempty" gorm:"column:city_name"`
	BarangayName *string    `json:"barangay_name,omitempty" gorm:"column:barangay_name"`
	PurokSitio   *string    `json:"purok_sitio,omitempty" gorm:"column:purok_sitio"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Masterlist) TableName() string {
	return "masterlists"
}

func (Record) TableName() string {
	return "masterlist_records"
}
