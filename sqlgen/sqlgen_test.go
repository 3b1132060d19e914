package sqlgen

import (
	"reflect"
	"testing"

	"github.com/beandb/mysqlstore/filter"
	"github.com/beandb/mysqlstore/naming"
)

func intp(v int) *int { return &v }

func TestSelect_Defaults(t *testing.T) {
	stmt, err := Select("userAccounts", SelectOptions{}, naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT * FROM `user_accounts`"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if len(stmt.Args) != 0 {
		t.Errorf("args = %v, want none", stmt.Args)
	}
}

func TestSelect_FullClause(t *testing.T) {
	stmt, err := Select("userAccounts", SelectOptions{
		Columns:   []string{"userName", "createdAt"},
		Where:     filter.GreaterThan("age", 18),
		Sort:      Desc("createdAt"),
		Limit:     intp(10),
		Offset:    intp(20),
		IndexHint: "idx_age",
	}, naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT `user_name`, `created_at` FROM `user_accounts` FORCE INDEX (`idx_age`) " +
		"WHERE `age` > ? ORDER BY `created_at` DESC LIMIT 10 OFFSET 20"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{18}) {
		t.Errorf("args = %v, want [18]", stmt.Args)
	}
}

func TestSelect_ProjectionOrderIsCallerOrder(t *testing.T) {
	stmt, err := Select("t", SelectOptions{Columns: []string{"b", "a", "c"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT `b`, `a`, `c` FROM `t`"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
}

func TestSelect_OffsetWithoutLimit(t *testing.T) {
	stmt, err := Select("t", SelectOptions{Offset: intp(5)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT * FROM `t` LIMIT 18446744073709551615 OFFSET 5"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
}

func TestSelect_NegativeCountsOmitted(t *testing.T) {
	stmt, err := Select("t", SelectOptions{Limit: intp(-1), Offset: intp(-1)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stmt.SQL != "SELECT * FROM `t`" {
		t.Errorf("SQL = %q, negative counts must omit LIMIT/OFFSET", stmt.SQL)
	}
}

func TestSelect_CompileErrorPropagates(t *testing.T) {
	_, err := Select("t", SelectOptions{Where: filter.Cmp{Field: "a", Op: "BOGUS"}}, nil)
	if err == nil {
		t.Fatal("expected compile error")
	}
}

func TestCount(t *testing.T) {
	stmt, err := Count("users", filter.Equals("active", true), "idx_active", naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT COUNT(*) AS `c` FROM `users` FORCE INDEX (`idx_active`) WHERE `active` = ?"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
}

func TestSum(t *testing.T) {
	stmt, err := Sum("orders", "totalPrice", nil, naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT SUM(`total_price`) AS `s` FROM `orders`"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
}

func TestInsert_KeyAbsentRequestsGeneratedKey(t *testing.T) {
	stmt, err := Insert("users", map[string]any{"userName": "ada", "age": 36}, "id", naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "INSERT INTO `users` (`age`, `user_name`) VALUES (?, ?)"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{36, "ada"}) {
		t.Errorf("args = %v", stmt.Args)
	}
	if !stmt.WantGeneratedKey {
		t.Error("absent key must request a generated key")
	}
}

func TestInsert_NilKeyOmitted(t *testing.T) {
	stmt, err := Insert("users", map[string]any{"id": nil, "userName": "ada"}, "id", naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "INSERT INTO `users` (`user_name`) VALUES (?)"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if !stmt.WantGeneratedKey {
		t.Error("nil key must request a generated key")
	}
}

func TestInsert_KeySetIncluded(t *testing.T) {
	stmt, err := Insert("users", map[string]any{"id": 7, "userName": "ada"}, "id", naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "INSERT INTO `users` (`id`, `user_name`) VALUES (?, ?)"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if stmt.WantGeneratedKey {
		t.Error("set key must not request a generated key")
	}
}

func TestInsertBatch(t *testing.T) {
	rows := []map[string]any{
		{"a": 1, "b": "x"},
		{"a": 2, "b": "y"},
	}
	stmt, err := InsertBatch("t", rows, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "INSERT INTO `t` (`a`, `b`) VALUES (?, ?), (?, ?)"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{1, "x", 2, "y"}) {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestInsertBatch_DivergentRowsRejected(t *testing.T) {
	rows := []map[string]any{
		{"a": 1, "b": "x"},
		{"a": 2, "c": "y"},
	}
	if _, err := InsertBatch("t", rows, nil); err == nil {
		t.Fatal("divergent column sets must be rejected")
	}
	short := []map[string]any{{"a": 1, "b": 2}, {"a": 3}}
	if _, err := InsertBatch("t", short, nil); err == nil {
		t.Fatal("short rows must be rejected")
	}
}

func TestUpdateByKey(t *testing.T) {
	stmt, err := UpdateByKey("users", map[string]any{"userName": "ada", "age": 37}, "id", 7, naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "UPDATE `users` SET `age` = ?, `user_name` = ? WHERE `id` = ?"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{37, "ada", 7}) {
		t.Errorf("args = %v", stmt.Args)
	}
}

func TestUpdate_EmptyFilterUnrestricted(t *testing.T) {
	stmt, err := Update("users", map[string]any{"status": "x"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "UPDATE `users` SET `status` = ?"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want no WHERE clause", stmt.SQL)
	}
}

func TestDelete(t *testing.T) {
	stmt, err := Delete("users", filter.LessThan("age", 18), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "DELETE FROM `users` WHERE `age` < ?"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}

	all, err := Delete("users", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if all.SQL != "DELETE FROM `users`" {
		t.Errorf("empty filter SQL = %q, want unrestricted DELETE", all.SQL)
	}
}

func TestIncrement(t *testing.T) {
	stmt, err := Increment("accounts", "loginCount", 1, "id", 7, naming.Default{})
	if err != nil {
		t.Fatal(err)
	}
	want := "UPDATE `accounts` SET `login_count` = `login_count` + ? WHERE `id` = ?"
	if stmt.SQL != want {
		t.Errorf("SQL = %q, want %q", stmt.SQL, want)
	}
	if !reflect.DeepEqual(stmt.Args, []any{1, 7}) {
		t.Errorf("args = %v", stmt.Args)
	}
}
