package clipboard

import (
	"errors"
	"testing"
)

func TestCopyReportsUnavailableClipboard(t *testing.T) {
	t.Parallel()

	service := &Service{unsupported: true}
	if err := service.Copy("<svg/>"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
