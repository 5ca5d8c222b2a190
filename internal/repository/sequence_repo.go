package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// SequenceRepository 编号计数器
type SequenceRepository interface {
	// Next 原子地递增并返回 scope 的下一个值，首次调用返回 1
	Next(ctx context.Context, scope string) (int64, error)
}

type sequenceRepo struct {
	db *gorm.DB
}

// NewSequenceRepo 创建 SequenceRepository 实例
func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db: db}
}

func (r *sequenceRepo) Next(ctx context.Context, scope string) (int64, error) {
	var seq model.NumberSequence
	err := r.db.WithContext(ctx).
		Raw(`INSERT INTO number_sequences (scope, last_value) VALUES (?, 1)
			ON CONFLICT (scope) DO UPDATE SET last_value = number_sequences.last_value + 1
			RETURNING scope, last_value`, scope).
		Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}
