package tokens

import (
	"errors"
	"testing"
	"time"
)

func TestMintVerify(t *testing.T) {
	tok, err := Mint("s3cret", "user-1", "a@b.c", time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	claims, err := Verify("s3cret", tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@b.c" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerify_Rejects(t *testing.T) {
	good, _ := Mint("s3cret", "user-1", "", time.Hour)
	expired, _ := Mint("s3cret", "user-1", "", -time.Minute)
	noSub, _ := Mint("s3cret", "", "", time.Hour)

	tests := []struct {
		name   string
		secret string
		token  string
		want   error
	}{
		{"wrong secret", "other", good, ErrInvalidToken},
		{"expired", "s3cret", expired, ErrInvalidToken},
		{"no subject", "s3cret", noSub, ErrInvalidToken},
		{"garbage", "s3cret", "not.a.jwt", ErrInvalidToken},
		{"no secret", "", good, ErrNoSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Verify(tt.secret, tt.token); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
