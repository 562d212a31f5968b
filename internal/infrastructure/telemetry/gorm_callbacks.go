package telemetry

import (
	"strings"

	"gorm.io/gorm"
)

type registerFunc func(name string, fn func(*gorm.DB)) error

type gormOperation struct {
	key    string
	verb   string // empty means detect from the statement
	before registerFunc
	after  registerFunc
}

func gormOperations(db *gorm.DB) []gormOperation {
	cb := db.Callback()
	return []gormOperation{
		{"create", "INSERT", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", "SELECT", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", "UPDATE", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", "DELETE", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", "", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", "", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
}

// registerAround installs before and after around every gorm operation.
// after receives the SQL verb of the statement.
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), after func(tx *gorm.DB, verb string)) error {
	for _, op := range gormOperations(db) {
		if before != nil {
			if err := op.before(prefix+":before_"+op.key, before); err != nil {
				return err
			}
		}
		verb := op.verb
		if err := op.after(prefix+":after_"+op.key, func(tx *gorm.DB) {
			v := verb
			if v == "" {
				v = detectOperationType(tx.Statement.SQL.String())
			}
			after(tx, v)
		}); err != nil {
			return err
		}
	}
	return nil
}

// detectOperationType reads the SQL verb of a raw statement
func detectOperationType(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))
	for _, verb := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, verb) {
			return verb
		}
	}
	return "OTHER"
}
