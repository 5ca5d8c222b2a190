package model

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL INT[] ──

// IntArray 映射 PostgreSQL INT[]，用于"障碍年级"这类小整数集合。
// 写入时去重并升序，读出的值与写入顺序无关。
type IntArray []int

// Scan 解析 {3,5} 形式的数组文本。
func (a *IntArray) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("IntArray: 不支持的类型 %T", src)
	}

	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	arr := IntArray{}
	if s != "" {
		for _, p := range strings.Split(s, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return fmt.Errorf("IntArray: 无效元素 %q: %w", p, err)
			}
			arr = append(arr, n)
		}
	}
	*a = arr.Normalize()
	return nil
}

// Value 输出 {3,5} 文本；nil 写为空数组以满足 NOT NULL 列。
func (a IntArray) Value() (driver.Value, error) {
	norm := a.Normalize()
	parts := make([]string, len(norm))
	for i, n := range norm {
		parts[i] = strconv.Itoa(n)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Normalize 返回去重升序后的副本
func (a IntArray) Normalize() IntArray {
	out := make(IntArray, 0, len(a))
	out = append(out, a...)
	slices.Sort(out)
	return slices.Compact(out)
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的模型
// 学年删除需要级联到期间/事件/报名，因此这里不带软删除
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}
