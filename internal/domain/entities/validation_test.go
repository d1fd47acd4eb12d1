package entities

import (
	"errors"
	"strings"
	"testing"

	domainerrors "github.com/rafabene/avantpro-social/internal/domain/errors"
	"github.com/rafabene/avantpro-social/internal/domain/valueobjects"
)

func mustEmail(t *testing.T, s string) valueobjects.Email {
	t.Helper()
	email, err := valueobjects.NewEmail(s)
	if err != nil {
		t.Fatalf("NewEmail(%q): %v", s, err)
	}
	return email
}

func TestUser_Validate(t *testing.T) {
	long := strings.Repeat("a", AboutMeMaxLength+1)

	tests := []struct {
		name    string
		user    User
		wantErr error
	}{
		{"válido", User{Username: "ana", Email: mustEmail(t, "ana@example.com"), Role: RoleUser}, nil},
		{"username curto", User{Username: "an", Email: mustEmail(t, "ana@example.com"), Role: RoleUser}, domainerrors.ErrInvalidUsername},
		{"username longo", User{Username: strings.Repeat("x", 65), Email: mustEmail(t, "ana@example.com"), Role: RoleUser}, domainerrors.ErrInvalidUsername},
		{"sem email", User{Username: "ana", Role: RoleUser}, domainerrors.ErrInvalidEmail},
		{"role inválido", User{Username: "ana", Email: mustEmail(t, "ana@example.com"), Role: "root"}, domainerrors.ErrInvalidRole},
		{"about_me longo", User{Username: "ana", Email: mustEmail(t, "ana@example.com"), Role: RoleUser, AboutMe: &long}, domainerrors.ErrInvalidAboutMe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"mínimo", "123456", true},
		{"curta", "12345", false},
		{"limite do bcrypt", strings.Repeat("p", 72), true},
		{"acima do limite", strings.Repeat("p", 73), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err == nil) != tt.valid {
				t.Errorf("ValidatePassword() = %v, valid=%v", err, tt.valid)
			}
		})
	}
}

func TestPost_Validate(t *testing.T) {
	longKey := strings.Repeat("k", ImageKeyMaxLength+1)

	tests := []struct {
		name    string
		post    Post
		wantErr error
	}{
		{"válido", Post{Title: "Olá", Body: "mundo"}, nil},
		{"título vazio", Post{Title: "   ", Body: "mundo"}, domainerrors.ErrInvalidTitle},
		{"título longo", Post{Title: strings.Repeat("t", TitleMaxLength+1), Body: "mundo"}, domainerrors.ErrInvalidTitle},
		{"corpo vazio", Post{Title: "Olá", Body: ""}, domainerrors.ErrInvalidBody},
		{"corpo longo", Post{Title: "Olá", Body: strings.Repeat("b", PostBodyMaxLength+1)}, domainerrors.ErrInvalidBody},
		{"corpo no limite com acentos", Post{Title: "Olá", Body: strings.Repeat("é", PostBodyMaxLength)}, nil},
		{"chave de imagem longa", Post{Title: "Olá", Body: "mundo", Image: &longKey}, domainerrors.ErrInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.post.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComment_Validate(t *testing.T) {
	if err := (&Comment{Body: "ok"}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := (&Comment{Body: strings.Repeat("c", CommentBodyMaxLength+1)}).Validate(); !errors.Is(err, domainerrors.ErrInvalidBody) {
		t.Errorf("Validate() = %v, want ErrInvalidBody", err)
	}
}

func TestPost_Status(t *testing.T) {
	if (&Post{IsApproved: true}).Status() != "Approved" {
		t.Error("approved post should report Approved")
	}
	if (&Post{}).Status() != "Pending" {
		t.Error("pending post should report Pending")
	}
}

func TestParseFilters(t *testing.T) {
	if ParsePostStatusFilter("bogus") != PostStatusAll {
		t.Error("unknown status should fall back to all")
	}
	if ParsePostStatusFilter("pending") != PostStatusPending {
		t.Error("pending should parse")
	}
	if ParsePostOrder("") != OrderTimestampDesc {
		t.Error("empty order should fall back to timestamp_desc")
	}
	if ParsePostOrder("title_asc") != OrderTitleAsc {
		t.Error("title_asc should parse")
	}
}
