package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return asBool
}

// GetSeconds reads an integer number of seconds.
func GetSeconds(config map[string]string, key string, defaultValue time.Duration) time.Duration {
	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	seconds, err := strconv.Atoi(s)
	if err != nil || seconds < 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

// GetList splits a comma separated value, dropping blanks.
func GetList(config map[string]string, key string) []string {
	var out []string
	for _, item := range strings.Split(config[key], ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadParameters copies every SSM parameter under prefix into config. The key is the
// last path segment upper-cased with dashes turned into underscores, so
// /research-portal/prod/jwt-secret becomes JWT_SECRET. Keys already present in
// config are kept.
func LoadParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, config map[string]string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("loading parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			key := strings.ToUpper(strings.ReplaceAll(path.Base(*p.Name), "-", "_"))
			if _, ok := config[key]; ok {
				continue
			}
			config[key] = *p.Value
		}
	}
	return nil
}
