package web

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pdf-assistant/internal/usecase"
)

// ===== Download reference signing =====

// DownloadSigner mints and verifies the signed tokens used as download
// references for result files. A token binds (session id, file id) so a
// reference cannot be replayed against another session's files.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
}

var _ usecase.DownloadRefSigner = (*DownloadSigner)(nil)

func NewDownloadSigner(secret string, ttl time.Duration) *DownloadSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DownloadSigner{secret: []byte(secret), ttl: ttl}
}

type downloadClaims struct {
	SessionID string `json:"sid"`
	FileID    string `json:"fid"`
	jwt.RegisteredClaims
}

func (d *DownloadSigner) Sign(sessionID, fileID string) (string, error) {
	now := time.Now()
	claims := downloadClaims{
		SessionID: sessionID,
		FileID:    fileID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
			Subject:   "download",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(d.secret)
	if err != nil {
		return "", err
	}
	return "/api/v1/files/download/" + signed, nil
}

// Verify returns the (session id, file id) pair a raw token was minted
// for.
func (d *DownloadSigner) Verify(raw string) (string, string, error) {
	var claims downloadClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return d.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid || claims.SessionID == "" || claims.FileID == "" {
		return "", "", errors.New("invalid download token")
	}
	return claims.SessionID, claims.FileID, nil
}
