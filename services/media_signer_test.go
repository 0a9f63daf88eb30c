package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigner() *MediaSigner {
	client := s3.New(s3.Options{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", "")),
	})
	return NewMediaSigner(client, "portal-media", "https://cdn.example.edu/")
}

func TestPresignUpload(t *testing.T) {
	signer := testSigner()
	user := &models.User{ID: uuid.New()}

	upload, err := signer.PresignUpload(context.Background(), user, "Demo Shot.PNG", "image/png")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, upload.Method)
	assert.Equal(t, models.MediaImage, upload.Kind)
	assert.Contains(t, upload.UploadURL, "portal-media")
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature=")
	assert.True(t, strings.HasPrefix(upload.PublicURL, "https://cdn.example.edu/projects/"+user.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(upload.PublicURL, ".png"))
	assert.Equal(t, "image/png", upload.Headers["Content-Type"])

	video, err := signer.PresignUpload(context.Background(), user, "walkthrough.mp4", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, models.MediaVideo, video.Kind)
}

func TestPresignUploadRejects(t *testing.T) {
	signer := testSigner()

	_, err := signer.PresignUpload(context.Background(), &models.User{ID: uuid.New()}, "notes.pdf", "application/pdf")
	assert.Equal(t, errs.KindValidationFailed, errs.KindOf(err))

	_, err = signer.PresignUpload(context.Background(), nil, "a.png", "image/png")
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
}
