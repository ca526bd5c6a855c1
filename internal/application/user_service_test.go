package application

import (
	"context"
	"strings"
	"testing"

	"github.com/oksasatya/event-registration/internal/domain/entity"
	"github.com/oksasatya/event-registration/pkg/apperror"
	"github.com/oksasatya/event-registration/pkg/helpers"
)

func TestCreateUser(t *testing.T) {
	svc := NewUserService(openGateway(t), helpers.NewDiscardLogger())
	ctx := context.Background()

	long := strings.Repeat("a", entity.MaxTextLength+1)
	for _, tt := range []struct{ email, name string }{
		{"", "Ada"},
		{"ada@example.com", " "},
		{long + "@example.com", "Ada"},
		{"ada@example.com", long},
	} {
		_, err := svc.CreateUser(ctx, tt.email, tt.name)
		wantKind(t, err, apperror.KindInvalidArgument)
	}

	first, err := svc.CreateUser(ctx, " ada@example.com ", "Ada")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID <= 0 || first.Email != "ada@example.com" {
		t.Fatalf("user = %+v", first)
	}

	second, err := svc.CreateUser(ctx, "ada@example.com", "Ada Again")
	if err != nil {
		t.Fatalf("duplicate email should be allowed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a distinct id")
	}
}
