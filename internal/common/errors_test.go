package common

import (
	"errors"
	"strings"
	"testing"
)

func TestMissingConfiguration(t *testing.T) {
	err := MissingConfiguration("apiKey")
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFIG_MISSING" {
		t.Fatalf("err = %v, want CONFIG_MISSING AppError", err)
	}
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("err = %v does not wrap ErrConfigurationMissing", err)
	}
	if !strings.Contains(err.Error(), `"apiKey"`) {
		t.Fatalf("message = %q", err.Error())
	}
}
