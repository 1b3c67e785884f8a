package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr string
	}{
		{
			name: "valid user",
			req:  &CreateUserRequest{Name: "Alice Williams", Handle: "alicewilliams"},
		},
		{
			name:    "user without handle",
			req:     &CreateUserRequest{Name: "Alice Williams"},
			wantErr: "Handle: failed required",
		},
		{
			name:    "cause with blank tag",
			req:     &CreateCauseRequest{Name: "Waverly", Handle: "waverly", Tags: []string{"mutual-aid", ""}},
			wantErr: "failed required",
		},
		{
			name:    "transfer without destination",
			req:     &TransferSharesRequest{Amount: decimal.NewFromInt(5)},
			wantErr: "ToAccountID: failed required",
		},
		{
			name:    "grant with oversized note",
			req:     &GrantSharesRequest{ToAccountID: "acc", Note: ptr(strings.Repeat("n", 501))},
			wantErr: "Note: failed max=500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTransferSharesRequest_AcceptsNumberOrString(t *testing.T) {
	for _, body := range []string{
		`{"to_account_id":"acc-2","amount":12.5}`,
		`{"to_account_id":"acc-2","amount":"12.50"}`,
	} {
		var req TransferSharesRequest
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}

		input := req.ToUseCaseInput("acc-1")
		if input.FromAccountID != "acc-1" || input.ToAccountID != "acc-2" {
			t.Fatalf("unexpected accounts: %+v", input)
		}
		if !input.Amount.Equal(decimal.RequireFromString("12.5")) {
			t.Fatalf("unexpected amount %s", input.Amount)
		}
	}
}

func TestCreateCauseRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateCauseRequest{
		Name:        "Waverly Mutual Aid",
		Handle:      "waverly-mutual-aid",
		Description: "A mutual aid group",
		Tags:        []string{"mutual-aid", "community-group"},
	}

	input := req.ToUseCaseInput()
	if input.Handle != req.Handle || len(input.Tags) != 2 || input.Tags[1] != "community-group" {
		t.Fatalf("unexpected input: %+v", input)
	}
}

func ptr[T any](v T) *T { return &v }
