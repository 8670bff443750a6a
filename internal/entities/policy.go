package entities

// HermeneuticalPolicy is the write-once policy row. Triggers installed by the
// database package reject UPDATE and DELETE once the row exists.
type HermeneuticalPolicy struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Version      string `gorm:"size:32;not null" json:"version"`
	Title        string `gorm:"size:256;not null" json:"title"`
	Preface      string `gorm:"type:text;not null" json:"preface"`
	Body         string `gorm:"type:text;not null" json:"body"`
	Checksum     string `gorm:"size:64;not null" json:"checksum"` // hex SHA-256 of preface + "\n\n" + body
	EffectiveUTC string `gorm:"size:32;not null" json:"effective_utc"`
}

func (HermeneuticalPolicy) TableName() string {
	return "hermeneutical_policy"
}
