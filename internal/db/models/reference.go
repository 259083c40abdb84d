package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Cancer is a seeded cancer type.
type Cancer struct {
	bun.BaseModel `bun:"table:cancers,alias:c"`

	ID   uuid.UUID `bun:"id,pk,type:uuid"`
	Name string    `bun:"name,notnull,unique"`
}

// PrimarySite is a seeded anatomical primary site.
type PrimarySite struct {
	bun.BaseModel `bun:"table:primary_sites,alias:ps"`

	ID   uuid.UUID `bun:"id,pk,type:uuid"`
	Name string    `bun:"name,notnull,unique"`
}
