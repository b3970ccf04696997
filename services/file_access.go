package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"research-repository-api/models"
)

// AccessMode tells the caller how a file must be fetched.
type AccessMode string

const (
	AccessSignedURL           AccessMode = "signed_url"
	AccessAuthenticatedStream AccessMode = "authenticated_stream"
)

// Requester describes who asks for a file.
type Requester struct {
	UserID     string
	IsOwner    bool
	Privileged bool
}

// AccessPlan is the retrieval path handed back for a submission file.
type AccessPlan struct {
	Mode            AccessMode `json:"mode"`
	URL             string     `json:"url"`
	RequiresSession bool       `json:"requires_session"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	FileName        string     `json:"file_name"`
	MimeType        string     `json:"mime_type"`
}

// LinkSigner issues short-lived capabilities for a stored file.
type LinkSigner interface {
	SignedURL(submissionID string, ref models.FileRef, expiresAt time.Time) (string, error)
}

// ResolveFileAccess decides how rec's file may be retrieved by requester.
// Approved files resolve to a signed link that does not depend on the
// requester's session; all other files must be streamed with the session
// credential and only to the owner or a privileged reviewer.
func ResolveFileAccess(rec *models.Submission, requester Requester, signer LinkSigner, streamBase string, now time.Time, ttl time.Duration) (AccessPlan, error) {
	ref := rec.FileRefValue()
	if ref == nil {
		return AccessPlan{}, ErrNoFileAttached
	}

	if rec.Status == models.StatusApproved {
		expiresAt := now.Add(ttl)
		link, err := signer.SignedURL(rec.SubmissionID, *ref, expiresAt)
		if err != nil {
			return AccessPlan{}, fmt.Errorf("sign file link: %w", err)
		}
		return AccessPlan{
			Mode:            AccessSignedURL,
			URL:             link,
			RequiresSession: false,
			ExpiresAt:       &expiresAt,
			FileName:        ref.Name,
			MimeType:        ref.MimeType,
		}, nil
	}

	if !requester.IsOwner && !requester.Privileged {
		return AccessPlan{}, ErrForbidden
	}

	return AccessPlan{
		Mode:            AccessAuthenticatedStream,
		URL:             strings.TrimRight(streamBase, "/") + "/submissions/" + url.PathEscape(rec.SubmissionID) + "/file/content",
		RequiresSession: true,
		FileName:        ref.Name,
		MimeType:        ref.MimeType,
	}, nil
}

// FileLinkClaims is the payload of a signed file link. The stored file is
// identified by a keyed digest of its storage path, never the path itself.
type FileLinkClaims struct {
	SubmissionID string `json:"sid"`
	FileDigest   string `json:"fd"`
	jwt.RegisteredClaims
}

const fileLinkAudience = "submission-file"

// JWTLinkSigner signs file links as HS256 tokens.
type JWTLinkSigner struct {
	secret  []byte
	baseURL string
	now     func() time.Time
}

func NewJWTLinkSigner(secret, baseURL string, clock Clock) *JWTLinkSigner {
	if clock == nil {
		clock = SystemClock
	}
	return &JWTLinkSigner{
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     clock.Now,
	}
}

func (s *JWTLinkSigner) SignedURL(submissionID string, ref models.FileRef, expiresAt time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("file link secret is not configured")
	}

	claims := FileLinkClaims{
		SubmissionID: submissionID,
		FileDigest:   s.fileDigest(ref.StoragePath),
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{fileLinkAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/files/signed/" + token, nil
}

// Verify parses a token produced by SignedURL.
func (s *JWTLinkSigner) Verify(token string) (*FileLinkClaims, error) {
	claims := &FileLinkClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(fileLinkAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.ExpiresAt == nil {
		return nil, ErrForbidden
	}
	return claims, nil
}

// MatchesFile reports whether claims were issued for the file at storagePath.
func (s *JWTLinkSigner) MatchesFile(claims *FileLinkClaims, storagePath string) bool {
	if claims == nil || claims.FileDigest == "" {
		return false
	}
	return hmac.Equal([]byte(claims.FileDigest), []byte(s.fileDigest(storagePath)))
}

func (s *JWTLinkSigner) fileDigest(storagePath string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(fileLinkAudience + ":" + storagePath))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
