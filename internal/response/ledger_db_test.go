package response

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/crosswatch/crosswatch/internal/apperr"
	"github.com/crosswatch/crosswatch/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// In-memory sqlite is per-connection; keep the pool at one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Admin{},
		&models.Community{},
		&models.Report{},
		&models.Player{},
		&models.PlayerReport{},
		&models.PlayerReportResponse{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// seedPlayerReport creates a community plus one report with one player
// row and returns the player report ID and community ID.
func seedPlayerReport(t *testing.T, db *gorm.DB) (int64, int64) {
	t.Helper()

	admin := models.Admin{DiscordID: 100, Name: "hammer"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}
	community := models.Community{Name: "alpha squad", OwnerID: admin.DiscordID, IsActive: true, CreatedAt: time.Now().UTC()}
	if err := db.Create(&community).Error; err != nil {
		t.Fatalf("Failed to seed community: %v", err)
	}
	report := models.Report{ID: 501, CreatedAt: time.Now().UTC(), Body: "report body"}
	if err := db.Create(&report).Error; err != nil {
		t.Fatalf("Failed to seed report: %v", err)
	}
	player := models.Player{ID: "76561198000000001"}
	if err := db.Create(&player).Error; err != nil {
		t.Fatalf("Failed to seed player: %v", err)
	}
	pr := models.PlayerReport{PlayerID: player.ID, ReportID: report.ID, PlayerName: "alpha"}
	if err := db.Create(&pr).Error; err != nil {
		t.Fatalf("Failed to seed player report: %v", err)
	}
	return pr.ID, community.ID
}

func TestRecordOncePerPair(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()
	prID, communityID := seedPlayerReport(t, db)

	first, err := ledger.Record(ctx, RecordParams{PRID: prID, CommunityID: communityID, Banned: false, RejectReason: models.RejectReasonInsufficient})
	if err != nil {
		t.Fatalf("First response should be recorded: %v", err)
	}

	// A retry with a different disposition must not overwrite the first.
	_, err = ledger.Record(ctx, RecordParams{PRID: prID, CommunityID: communityID, Banned: true})
	if apperr.KindOf(err) != apperr.KindAlreadyRecorded {
		t.Fatalf("Second record for the pair should report already_recorded, got: %v", err)
	}

	var rows []models.PlayerReportResponse
	if err := db.Where("pr_id = ? AND community_id = ?", prID, communityID).Find(&rows).Error; err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected exactly one response row for the pair, got %d", len(rows))
	}
	if rows[0].ID != first.ID || rows[0].Banned {
		t.Errorf("First recorded disposition must win, got %+v", rows[0])
	}
	if !rows[0].RejectReason.Valid || rows[0].RejectReason.String != models.RejectReasonInsufficient {
		t.Errorf("Reject reason of the first record must survive, got %+v", rows[0].RejectReason)
	}
}

func TestRecordDistinctPairs(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()
	prID, communityID := seedPlayerReport(t, db)

	other := models.Community{Name: "bravo squad", OwnerID: 100, IsActive: true, CreatedAt: time.Now().UTC()}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("Failed to seed second community: %v", err)
	}

	if _, err := ledger.Record(ctx, RecordParams{PRID: prID, CommunityID: communityID, Banned: true}); err != nil {
		t.Fatalf("First pair should record: %v", err)
	}
	if _, err := ledger.Record(ctx, RecordParams{PRID: prID, CommunityID: other.ID, Banned: false}); err != nil {
		t.Fatalf("Different community for the same player report should record: %v", err)
	}

	responded, err := ledger.HasResponded(ctx, prID, other.ID)
	if err != nil {
		t.Fatalf("HasResponded failed: %v", err)
	}
	if !responded {
		t.Error("HasResponded should see the recorded pair")
	}

	stats, err := ledger.StatsFor(ctx, 501)
	if err != nil {
		t.Fatalf("StatsFor failed: %v", err)
	}
	if stats.NumResponses != 2 || stats.NumBanned != 1 || stats.NumRejected != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestRecordUnknownPair(t *testing.T) {
	db := openTestDB(t)
	ledger := NewLedger(db)
	ctx := context.Background()
	_, communityID := seedPlayerReport(t, db)

	_, err := ledger.Record(ctx, RecordParams{PRID: 9999, CommunityID: communityID})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("Unknown player report should be not_found, got: %v", err)
	}
}
