package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("starlet:movie:idx").
		Prefix("starlet:movie:").
		Tag("kind").
		Numeric("id").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "starlet:movie:idx" {
		t.Errorf("name = %q, want starlet:movie:idx", idx.Name)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "kind" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want kind TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "id" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want id NUMERIC", idx.Fields[1])
	}
	if idx.HasTextFields() {
		t.Error("expected no text fields")
	}
}

func TestIndexBuilder_AnalyzedText(t *testing.T) {
	idx := NewIndex("movies").
		Prefix("m:").
		NoStopWords().
		AnalyzedText("ru_title", 2).
		AnalyzedText("orig_title", 0).
		SortableNumeric("id").
		MustBuild()

	if !idx.HasTextFields() {
		t.Fatal("expected text fields")
	}
	f := idx.Fields[0]
	if !f.TextNoStem {
		t.Error("expected NOSTEM")
	}
	if f.TextWeight != 2 {
		t.Errorf("weight = %v, want 2", f.TextWeight)
	}
	if idx.StopWords == nil || len(idx.StopWords) != 0 {
		t.Errorf("stopwords = %v, want empty non-nil", idx.StopWords)
	}
	if !idx.Fields[2].Sortable {
		t.Error("expected id SORTABLE")
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		Tag("x").
		MustBuild()

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Tag("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "negative weight",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").AnalyzedText("t", -1).Build()
			},
			wantErr: "negative weight",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Tag("x").Build()
			},
			wantErr: "invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("my-idx").
		Prefix("doc:").
		NoStopWords().
		AnalyzedText("name", 0).
		MustBuild()

	s := idx.String()
	if !strings.HasPrefix(s, "FT.CREATE my-idx ON HASH") {
		t.Errorf("unexpected prefix in %q", s)
	}
	for _, want := range []string{"STOPWORDS 0", "name TEXT NOSTEM"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in %q", want, s)
		}
	}
}

func TestIndexBuilder_DuplicateFields(t *testing.T) {
	idx := &IndexDefinition{
		Name: "dup-idx",
		Fields: []IndexField{
			{Name: "field1", Type: IndexFieldTag},
			{Name: "field1", Type: IndexFieldNumeric},
		},
	}

	if err := idx.Validate(); err == nil {
		t.Fatal("expected error for duplicate fields")
	}
}
