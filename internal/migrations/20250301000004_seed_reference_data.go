package migrations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/argo-platform/program-service/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250301000004, down_20250301000004)
}

// referenceNamespace derives stable ids for seeded rows, so reseeding a fresh
// database yields the same ids.
var referenceNamespace = uuid.MustParse("8f2b6f0e-5a57-4c1e-9d36-3b0f1c2d9a10")

// SeedCancers are the cancer types available to programs.
var SeedCancers = []string{
	"Biliary tract cancer",
	"Bladder cancer",
	"Blood cancer",
	"Bone cancer",
	"Brain cancer",
	"Breast cancer",
	"Cervical cancer",
	"Colorectal cancer",
	"Esophageal cancer",
	"Gastric cancer",
	"Head and neck cancer",
	"Kidney cancer",
	"Liver cancer",
	"Lung cancer",
	"Nasopharyngeal cancer",
	"Oral cancer",
	"Ovarian cancer",
	"Pancreatic cancer",
	"Prostate cancer",
	"Sarcoma",
	"Skin cancer",
	"Thyroid cancer",
	"Uterine cancer",
}

// SeedPrimarySites are the anatomical primary sites available to programs.
var SeedPrimarySites = []string{
	"Adrenal gland",
	"Bile duct",
	"Bladder",
	"Bone",
	"Bone marrow",
	"Brain",
	"Breast",
	"Cervix",
	"Colorectal",
	"Esophagus",
	"Eye",
	"Gall bladder",
	"Head and neck",
	"Kidney",
	"Liver",
	"Lung",
	"Lymph nodes",
	"Nervous system",
	"Ovary",
	"Pancreas",
	"Prostate",
	"Skin",
	"Soft tissue",
	"Stomach",
	"Testis",
	"Thyroid",
	"Uterus",
}

// ReferenceID returns the seeded id for a reference row of the given kind.
func ReferenceID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(referenceNamespace, []byte(kind+":"+name))
}

// up_20250301000004 seeds cancers and primary sites
func up_20250301000004(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] seeding cancers...")
	for _, name := range SeedCancers {
		row := models.Cancer{ID: ReferenceID("cancer", name), Name: name}
		_, err := db.NewInsert().
			Model(&row).
			On("CONFLICT (name) DO NOTHING"). // Idempotent
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed cancer %s: %w", name, err)
		}
	}
	fmt.Println(" OK")

	fmt.Print(" [up] seeding primary sites...")
	for _, name := range SeedPrimarySites {
		row := models.PrimarySite{ID: ReferenceID("primary_site", name), Name: name}
		_, err := db.NewInsert().
			Model(&row).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed primary site %s: %w", name, err)
		}
	}
	fmt.Println(" OK")

	return nil
}

// down_20250301000004 removes the seeded rows
func down_20250301000004(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] removing seeded reference data...")

	if _, err := db.NewDelete().Model((*models.Cancer)(nil)).Where("name IN (?)", bun.In(SeedCancers)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove seeded cancers: %w", err)
	}
	if _, err := db.NewDelete().Model((*models.PrimarySite)(nil)).Where("name IN (?)", bun.In(SeedPrimarySites)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove seeded primary sites: %w", err)
	}

	fmt.Println(" OK")
	return nil
}
