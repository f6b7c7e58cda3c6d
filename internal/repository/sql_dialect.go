package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// claimCandidateSubquery 构建认领候选行的选取子查询。
// postgres 下追加 FOR UPDATE SKIP LOCKED，并发认领时各取各的行；
// sqlite 单写锁天然串行，无需行锁子句。
func claimCandidateSubquery(dialect string) string {
	base := "SELECT id FROM product_keys WHERE product_id = ? AND status = ? AND deleted_at IS NULL ORDER BY id ASC LIMIT 1"
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return base + " FOR UPDATE SKIP LOCKED"
	default:
		return base
	}
}

// likeOperatorByDialect 选择大小写不敏感匹配所需的 LIKE 运算符。
func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// buildSearchCondition 构建多列模糊搜索条件并返回参数数量。
func buildSearchCondition(db *gorm.DB, columns []string) (string, int) {
	operator := likeOperatorByDialect(dbDialectName(db))
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", trimmed, operator))
	}
	return strings.Join(parts, " OR "), len(parts)
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
