package repository

import (
	"testing"
)

func TestBuildLikeConditionSQLite(t *testing.T) {
	condition, argCount := buildLikeCondition(nil, "name", " ", "website")
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "(name LIKE ? OR website LIKE ?)" {
		t.Fatalf("unexpected condition: %s", condition)
	}
}

func TestBuildLikeConditionPostgres(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("postgres", "translation_key")
	if argCount != 1 || condition != "(translation_key ILIKE ?)" {
		t.Fatalf("unexpected postgres condition: %s (%d)", condition, argCount)
	}
	if condition, argCount := buildLikeConditionByDialect("sqlite"); condition != "" || argCount != 0 {
		t.Fatalf("empty columns should produce empty condition")
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
