package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title   string    `gorm:"not null" json:"title"`
	Details string    `gorm:"type:text;not null" json:"details"`
	Amount  string    `gorm:"type:varchar(6);not null" json:"amount"`

	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	// Bids live and die with their project.
	Bids []Bid `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"bids"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

type Bid struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bids_project_bidder" json:"project_id"`
	BidderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bids_project_bidder" json:"bidder_id"`

	// Snapshot of the bidder's username at bid time, not a live reference.
	Username string `gorm:"not null" json:"username"`

	Bid string `gorm:"type:text;not null" json:"bid"`

	CreatedAt time.Time `json:"created_at"`

	Bidder *User `gorm:"foreignKey:BidderID" json:"bidder,omitempty"`
}

func (b *Bid) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
