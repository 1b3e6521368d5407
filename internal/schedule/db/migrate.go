package db

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"ms-schedule/internal/models"
)

// Migrate creates the schedule tables if they do not exist yet. Intended for
// local development; production schemas go through the golang-migrate files
// under migrations/.
func Migrate(db *bun.DB) {
	ctx := context.Background()

	tables := []interface{}{
		(*models.Time)(nil),
		(*models.User)(nil),
		(*models.TalkProposal)(nil),
		(*models.CustomEvent)(nil),
		(*models.KeynoteEvent)(nil),
		(*models.SponsoredEvent)(nil),
		(*models.ProposedTalkEvent)(nil),
		(*models.Schedule)(nil),
	}

	for _, m := range tables {
		_, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx)
		if err != nil {
			log.Fatalf("create table failed for %T: %v", m, err)
		}
	}

	log.Println("✅ schedule tables ready")
}
