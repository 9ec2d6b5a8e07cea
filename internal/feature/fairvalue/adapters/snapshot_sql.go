package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gold_fairvalue/internal/feature/fairvalue/domain/entity"
	"gold_fairvalue/internal/feature/fairvalue/transport/dto"
	"gold_fairvalue/internal/feature/fairvalue/usecase"
)

// latestSnapshotID は最新スナップショット行の固定IDです。
const latestSnapshotID = 1

// SnapshotModel は最新スナップショット1行を表すテーブルです。
type SnapshotModel struct {
	ID    uint      `gorm:"primaryKey;autoIncrement:false"`
	RunAt time.Time `gorm:"not null"`

	XAUUSD    *float64
	USDJPY    *float64
	Price1540 *float64

	KDay    *float64
	TheoDay *float64
	DevDay  *float64
	K5m     *float64 `gorm:"column:k_5m"`
	Theo5m  *float64 `gorm:"column:theo_5m"`
	Dev5m   *float64 `gorm:"column:dev_5m"`
	K15m    *float64 `gorm:"column:k_15m"`
	Theo15m *float64 `gorm:"column:theo_15m"`
	Dev15m  *float64 `gorm:"column:dev_15m"`

	Payload   string `gorm:"type:text;not null"` // data.jsonと同じJSON
	UpdatedAt time.Time
}

func (SnapshotModel) TableName() string {
	return "fairvalue_snapshots"
}

// AutoMigrate はスナップショットテーブルを作成・更新します。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&SnapshotModel{})
}

type snapshotSQL struct {
	db *gorm.DB
}

var _ usecase.SnapshotPublisher = (*snapshotSQL)(nil)

// NewSnapshotSQL は最新スナップショットを1行だけ保持するSQL出力先を生成します。
func NewSnapshotSQL(db *gorm.DB) *snapshotSQL {
	return &snapshotSQL{db: db}
}

func toModel(s entity.Snapshot) (SnapshotModel, error) {
	r := dto.FromSnapshot(s)
	payload, err := json.Marshal(r)
	if err != nil {
		return SnapshotModel{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return SnapshotModel{
		ID:        latestSnapshotID,
		RunAt:     s.RunAt,
		XAUUSD:    r.XAUUSD,
		USDJPY:    r.USDJPY,
		Price1540: r.Price1540,
		KDay:      r.KDay,
		TheoDay:   r.TheoDay,
		DevDay:    r.DevDay,
		K5m:       r.K5m,
		Theo5m:    r.Theo5m,
		Dev5m:     r.Dev5m,
		K15m:      r.K15m,
		Theo15m:   r.Theo15m,
		Dev15m:    r.Dev15m,
		Payload:   string(payload),
	}, nil
}

// Publish は固定IDの行をupsertします。
func (r *snapshotSQL) Publish(ctx context.Context, snapshot entity.Snapshot) error {
	m, err := toModel(snapshot)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&m).Error
}

// Latest は保存されている最新スナップショット行を返します。
func (r *snapshotSQL) Latest(ctx context.Context) (SnapshotModel, error) {
	var m SnapshotModel
	if err := r.db.WithContext(ctx).First(&m, latestSnapshotID).Error; err != nil {
		return SnapshotModel{}, err
	}
	return m, nil
}
