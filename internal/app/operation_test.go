package app

import (
	"testing"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/testutil"
)

func TestNewOperation(t *testing.T) {
	tests := []struct {
		name       string
		operation  string
		parameters []string
		want       string
	}{
		{
			name:       "with parameters",
			operation:  "import",
			parameters: []string{"packagesite.json", "500"},
			want:       "packagesite.json 500",
		},
		{
			name:      "empty parameters",
			operation: "filters",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation(&testutil.SequentialIDs{}, tt.operation, tt.parameters...)

			if op.Name != tt.operation {
				t.Errorf("Name = %q, want %q", op.Name, tt.operation)
			}
			if op.Parameters != tt.want {
				t.Errorf("Parameters = %q, want %q", op.Parameters, tt.want)
			}
			if op.ID != "op-1" {
				t.Errorf("ID = %q, want %q", op.ID, "op-1")
			}
		})
	}
}

func TestNewOperation_DistinctIDs(t *testing.T) {
	ids := &testutil.SequentialIDs{}
	first := NewOperation(ids, "import")
	second := NewOperation(ids, "import")

	if first.ID == second.ID {
		t.Errorf("IDs = %q and %q, want distinct", first.ID, second.ID)
	}
}
