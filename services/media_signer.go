package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/models"
)

// MediaUpload tells the browser where to PUT a file and the URL it will have once
// uploaded. PublicURL is what goes into a project's media or image field.
type MediaUpload struct {
	UploadURL string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	PublicURL string            `json:"publicUrl"`
	Kind      models.MediaKind  `json:"kind"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// MediaSigner hands out presigned PUT URLs for the media bucket behind the CDN.
type MediaSigner struct {
	presign       *s3.PresignClient
	bucket        string
	publicBaseURL string
	expiry        time.Duration
	now           func() time.Time
}

func NewMediaSigner(client *s3.Client, bucket, publicBaseURL string) *MediaSigner {
	return &MediaSigner{
		presign:       s3.NewPresignClient(client),
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		expiry:        15 * time.Minute,
		now:           time.Now,
	}
}

// PresignUpload signs an upload of filename for user. Only image and video content
// types are accepted.
func (s *MediaSigner) PresignUpload(ctx context.Context, user *models.User, filename, contentType string) (MediaUpload, error) {
	if user == nil {
		return MediaUpload{}, errs.NewMissingTokenError()
	}

	var kind models.MediaKind
	switch {
	case strings.HasPrefix(contentType, "image/"):
		kind = models.MediaImage
	case strings.HasPrefix(contentType, "video/"):
		kind = models.MediaVideo
	default:
		return MediaUpload{}, errs.NewInvalidFieldError("contentType", "only image and video uploads are accepted")
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("projects/%s/%s%s", user.ID, uuid.New(), ext)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return MediaUpload{}, errs.NewInternalErrorWithCause("could not prepare the upload", err)
	}

	headers := map[string]string{"Content-Type": contentType}
	return MediaUpload{
		UploadURL: req.URL,
		Method:    req.Method,
		Headers:   headers,
		PublicURL: s.publicBaseURL + "/" + key,
		Kind:      kind,
		ExpiresAt: s.now().Add(s.expiry).UTC(),
	}, nil
}
