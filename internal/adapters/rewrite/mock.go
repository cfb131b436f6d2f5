package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/frn-eng/intake-agent/internal/domain"
)

type MockRewriter struct{}

func NewMockRewriter() *MockRewriter {
	return &MockRewriter{}
}

func (m *MockRewriter) Rewrite(ctx context.Context, fieldID domain.FieldID, label, raw string) (string, error) {
	return fmt.Sprintf("[%s] %s", label, strings.TrimSpace(raw)), nil
}
