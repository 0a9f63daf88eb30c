package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":              "9090",
		"BAD_INT":           "ninety",
		"SEED_DEPARTMENTS":  "true",
		"CACHE_TTL_SECONDS": "30",
		"ACCEPTED_ORIGINS":  "https://portal.example.edu, ,http://localhost:3000",
	}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "8080", GetString(nil, "PORT", "8080"))
	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 7, GetInt(c, "BAD_INT", 7))
	assert.True(t, GetBool(c, "SEED_DEPARTMENTS", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.False(t, GetBool(c, "PORT", false))
	assert.Equal(t, 30*time.Second, GetSeconds(c, "CACHE_TTL_SECONDS", time.Minute))
	assert.Equal(t, time.Minute, GetSeconds(c, "BAD_INT", time.Minute))
	assert.Equal(t, []string{"https://portal.example.edu", "http://localhost:3000"}, GetList(c, "ACCEPTED_ORIGINS"))
	assert.Empty(t, GetList(c, "MISSING"))
}

func TestSplit(t *testing.T) {
	k, v := split("DATABASE_URL=postgres://u:p@host/db?sslmode=require")
	assert.Equal(t, "DATABASE_URL", k)
	assert.Equal(t, "postgres://u:p@host/db?sslmode=require", v)

	k, v = split("EMPTY")
	assert.Equal(t, "EMPTY", k)
	assert.Equal(t, "", v)
}

type fakeParameterStore struct {
	pages [][]types.Parameter
	err   error
	calls int
}

func (f *fakeParameterStore) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestLoadParameters(t *testing.T) {
	store := &fakeParameterStore{pages: [][]types.Parameter{
		{
			{Name: aws.String("/research-portal/prod/jwt-secret"), Value: aws.String("from-ssm")},
			{Name: aws.String("/research-portal/prod/PORT"), Value: aws.String("7000")},
		},
		{
			{Name: aws.String("/research-portal/prod/redis/REDIS_URL"), Value: aws.String("redis://cache:6379/0")},
			{Name: aws.String("/research-portal/prod/broken")},
		},
	}}
	c := map[string]string{"PORT": "8080"}

	require.NoError(t, LoadParameters(context.Background(), store, "/research-portal/prod", c))
	assert.Equal(t, 2, store.calls)
	assert.Equal(t, "from-ssm", c["JWT_SECRET"])
	assert.Equal(t, "8080", c["PORT"], "environment wins over the parameter store")
	assert.Equal(t, "redis://cache:6379/0", c["REDIS_URL"])
	assert.NotContains(t, c, "BROKEN")
}

func TestLoadParametersError(t *testing.T) {
	store := &fakeParameterStore{err: errors.New("access denied")}
	err := LoadParameters(context.Background(), store, "/research-portal/prod", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
