package models

type Genre struct {
	ID   uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:50;uniqueIndex;not null"`
}

func (Genre) TableName() string {
	return "genres"
}

type Author struct {
	ID   uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:200;uniqueIndex;not null"`
}

func (Author) TableName() string {
	return "authors"
}
