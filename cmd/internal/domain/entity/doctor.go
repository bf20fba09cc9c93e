package entity

// Doctor and Patient are owned by the records CRUD screens; scheduling only
// reads them to check references.
type Doctor struct {
	ID             string `gorm:"primaryKey;size:64"`
	Name           string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex"`
	Specialization string
	CreatedAt      int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      int64 `gorm:"not null;autoUpdateTime:false"`

	WeeklyTemplates []WeeklyTemplate `gorm:"foreignKey:DoctorID"`
}

type Patient struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex"`
	Phone     string
	CreatedAt int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false"`
}
