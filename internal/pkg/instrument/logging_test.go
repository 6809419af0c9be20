package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLogger_MasksAndCorrelates(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "phoneotp", nil, []string{"code", " OTP "}, slog.LevelInfo)

	ctx := SetCorrelationID(context.Background(), "cid-123")
	logger.InfoContext(ctx, "otp issued", "phone", "9876543210", "code", "482913", "otp", "1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}

	if line["code"] != maskedValue || line["otp"] != maskedValue {
		t.Errorf("sensitive fields not masked: %v", line)
	}
	if line["phone"] != "9876543210" {
		t.Errorf("phone = %v", line["phone"])
	}
	if line["_cID"] != "cid-123" {
		t.Errorf("_cID = %v", line["_cID"])
	}
	if line["service"] != "phoneotp" {
		t.Errorf("service = %v", line["service"])
	}
	if line["severity"] != "INFO" {
		t.Errorf("severity = %v", line["severity"])
	}
}

func TestNewLogger_MasksBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "phoneotp", nil, []string{"code"}, slog.LevelInfo).With("code", "111111")

	logger.Info("bound")

	if bytes.Contains(buf.Bytes(), []byte("111111")) {
		t.Errorf("bound attribute leaked: %s", buf.String())
	}
}

func TestMaskData_Nested(t *testing.T) {
	in := map[string]any{
		"phone": "9876543210",
		"data":  map[string]any{"Code": "123456"},
		"list":  []any{map[string]any{"code": "1"}},
	}

	out := MaskData(in, MaskKeys([]string{"code"})).(map[string]any)

	if out["data"].(map[string]any)["Code"] != maskedValue {
		t.Errorf("nested map not masked: %v", out)
	}
	if out["list"].([]any)[0].(map[string]any)["code"] != maskedValue {
		t.Errorf("slice element not masked: %v", out)
	}
	if in["data"].(map[string]any)["Code"] != "123456" {
		t.Error("input must not be mutated")
	}
}

func TestGetCorrelationID_Absent(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Errorf("GetCorrelationID = %q, want empty", got)
	}
}
