package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	apperrors "github.com/louisbranch/savagesheet/internal/platform/errors"
)

func TestParse(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		q, err := Parse(KindGear, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Expr != nil {
			t.Fatal("expected nil expr for empty filter")
		}
		if q.Kind != KindGear {
			t.Fatalf("expected kind %s, got %s", KindGear, q.Kind)
		}
	})

	t.Run("whitespace only", func(t *testing.T) {
		q, err := Parse(KindGear, "  \t ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Expr != nil {
			t.Fatal("expected nil expr for whitespace filter")
		}
	})

	t.Run("int filter", func(t *testing.T) {
		q, err := Parse(KindGear, "cost = 50")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Expr == nil {
			t.Fatal("expected non-nil expr")
		}
	})

	t.Run("invalid syntax", func(t *testing.T) {
		if _, err := Parse(KindGear, "!!!invalid"); err == nil {
			t.Fatal("expected error for invalid syntax")
		}
	})

	t.Run("field of another kind", func(t *testing.T) {
		if _, err := Parse(KindSkills, `weight = 2`); err == nil {
			t.Fatal("expected error for undeclared field")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Parse(Kind("spells"), `name = "x"`)
		if code := apperrors.CodeOf(err); code != apperrors.CodeNotFound {
			t.Fatalf("expected code %s, got %s", apperrors.CodeNotFound, code)
		}
	})

	t.Run("unsupported field type", func(t *testing.T) {
		if _, err := (Fields{"x": FieldType("complex")}).declarations(); err == nil {
			t.Fatal("expected error for unsupported field type")
		}
	})
}

func TestQueryMatches(t *testing.T) {
	q, err := Parse(KindGear, `name = "Rope" AND cost < 50`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rope := Row{Kind: KindGear, ID: "rope", Name: "Rope", Fields: map[string]any{"cost": int64(10), "weight": int64(15)}}
	ok, err := q.Matches(rope)
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if !ok {
		t.Fatal("expected rope to match")
	}

	if _, err := q.Matches(Row{Kind: KindWeapons, ID: "rope", Name: "Rope"}); err == nil {
		t.Fatal("expected error matching a row of another kind")
	}
}

func TestFieldsNamesSorted(t *testing.T) {
	fields, err := FieldsFor(KindGear)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if diff := cmp.Diff([]string{"cost", "id", "name", "weight"}, fields.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate(t *testing.T) {
	resolve := func(name string) (any, bool) {
		switch name {
		case "name":
			return "Long Sword", true
		case "cost":
			return int64(300), true
		default:
			return nil, false
		}
	}

	tests := []struct {
		filter string
		want   bool
	}{
		{`name = "Long Sword"`, true},
		{`name = "long sword"`, true},
		{`name != "Staff"`, true},
		{`cost < 500`, true},
		{`cost > 300`, false},
		{`cost >= 300`, true},
		{`cost <= 299`, false},
		{`name = "Long Sword" AND cost = 300`, true},
		{`name = "Staff" AND cost = 300`, false},
		{`name = "Staff" OR cost = 300`, true},
		{`name = "Staff" OR cost = 10`, false},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			q, err := Parse(KindGear, tt.filter)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got, err := Evaluate(q.Expr, resolve)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("nil expression", func(t *testing.T) {
		ok, err := Evaluate(nil, resolve)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected true for nil expression")
		}
	})

	t.Run("negation", func(t *testing.T) {
		e := call("NOT", call("=", ident("cost"), intConst(300)))
		ok, err := Evaluate(e, resolve)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if ok {
			t.Fatal("expected negated match to be false")
		}
	})

	t.Run("has substring", func(t *testing.T) {
		e := call(":", ident("name"), stringConst("sword"))
		ok, err := Evaluate(e, resolve)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if !ok {
			t.Fatal("expected substring match")
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		e := call("=", ident("weight"), intConst(3))
		if _, err := Evaluate(e, resolve); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		e := call("=", ident("cost"), stringConst("cheap"))
		if _, err := Evaluate(e, resolve); err == nil {
			t.Fatal("expected error for type mismatch")
		}
	})

	t.Run("unsupported function", func(t *testing.T) {
		e := call("matches", ident("name"), stringConst("x"))
		if _, err := Evaluate(e, resolve); err == nil {
			t.Fatal("expected error for unsupported function")
		}
	})

	t.Run("non-call expression", func(t *testing.T) {
		if _, err := Evaluate(ident("name"), resolve); err == nil {
			t.Fatal("expected error for bare identifier")
		}
	})
}

func call(function string, args ...*expr.Expr) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_CallExpr{CallExpr: &expr.Expr_Call{Function: function, Args: args}}}
}

func ident(name string) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_IdentExpr{IdentExpr: &expr.Expr_Ident{Name: name}}}
}

func intConst(v int64) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_ConstExpr{ConstExpr: &expr.Constant{ConstantKind: &expr.Constant_Int64Value{Int64Value: v}}}}
}

func stringConst(v string) *expr.Expr {
	return &expr.Expr{ExprKind: &expr.Expr_ConstExpr{ConstExpr: &expr.Constant{ConstantKind: &expr.Constant_StringValue{StringValue: v}}}}
}
