package httperr

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", Unauthorized(), http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", Forbidden("nope"), http.StatusForbidden, CodeForbidden},
		{"no workspace", NoWorkspace(), http.StatusForbidden, CodeNoWorkspace},
		{"not found", NotFound("debt"), http.StatusNotFound, CodeNotFound},
		{"validation", Validation("bad"), http.StatusBadRequest, CodeValidation},
		{"internal", Internal(), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Error() == "" {
				t.Error("message must not be empty")
			}
		})
	}
}

func TestJSONHidesStatus(t *testing.T) {
	raw, err := json.Marshal(NotFound("debt"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["Status"]; ok {
		t.Error("Status must not serialize")
	}
	if decoded["message"] != "debt not found" {
		t.Errorf("message = %v", decoded["message"])
	}
	if decoded["code"] != CodeNotFound {
		t.Errorf("code = %v", decoded["code"])
	}
}
