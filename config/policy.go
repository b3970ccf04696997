package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	policyPathEnv      = "POLICY_CONFIG"
	reviseWindowEnv    = "REVISE_WINDOW_SECONDS"
	deleteWindowEnv    = "DELETE_WINDOW_SECONDS"
	signedURLTTLEnv    = "SIGNED_URL_TTL_SECONDS"
	maxUploadMBEnv     = "MAX_UPLOAD_MB"
	defaultWindowSecs  = 300
	defaultLinkTTLSecs = 300
	defaultMaxUploadMB = 10
)

// PolicyConfig holds the review rules loaded from file and environment.
type PolicyConfig struct {
	ReviseWindowSeconds int `yaml:"reviseWindowSeconds"`
	DeleteWindowSeconds int `yaml:"deleteWindowSeconds"`
	SignedURLTTLSeconds int `yaml:"signedUrlTtlSeconds"`
	MaxUploadMB         int `yaml:"maxUploadMb"`
}

func (p PolicyConfig) ReviseWindow() time.Duration {
	return time.Duration(p.ReviseWindowSeconds) * time.Second
}

func (p PolicyConfig) DeleteWindow() time.Duration {
	return time.Duration(p.DeleteWindowSeconds) * time.Second
}

func (p PolicyConfig) SignedURLTTL() time.Duration {
	return time.Duration(p.SignedURLTTLSeconds) * time.Second
}

func (p PolicyConfig) MaxUploadBytes() int64 {
	return int64(p.MaxUploadMB) * 1024 * 1024
}

func defaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		ReviseWindowSeconds: defaultWindowSecs,
		DeleteWindowSeconds: defaultWindowSecs,
		SignedURLTTLSeconds: defaultLinkTTLSecs,
		MaxUploadMB:         defaultMaxUploadMB,
	}
}

// LoadPolicy reads the YAML file named by POLICY_CONFIG (if any) and applies
// environment overrides. Invalid values keep the defaults.
func LoadPolicy() PolicyConfig {
	cfg := defaultPolicyConfig()

	if path := os.Getenv(policyPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("policy: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := ParsePolicy(raw); err != nil {
			log.Printf("policy: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergePolicy(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// ParsePolicy decodes a policy file.
func ParsePolicy(raw []byte) (PolicyConfig, error) {
	var cfg PolicyConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return PolicyConfig{}, err
	}
	return cfg, nil
}

func (p *PolicyConfig) applyEnvOverrides() {
	overridePositive(&p.ReviseWindowSeconds, reviseWindowEnv)
	overridePositive(&p.DeleteWindowSeconds, deleteWindowEnv)
	overridePositive(&p.SignedURLTTLSeconds, signedURLTTLEnv)
	overridePositive(&p.MaxUploadMB, maxUploadMBEnv)
}

func overridePositive(target *int, env string) {
	raw := os.Getenv(env)
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("policy: ignoring invalid %s=%q", env, raw)
		return
	}
	*target = v
}

func mergePolicy(base, override PolicyConfig) PolicyConfig {
	if override.ReviseWindowSeconds > 0 {
		base.ReviseWindowSeconds = override.ReviseWindowSeconds
	}
	if override.DeleteWindowSeconds > 0 {
		base.DeleteWindowSeconds = override.DeleteWindowSeconds
	}
	if override.SignedURLTTLSeconds > 0 {
		base.SignedURLTTLSeconds = override.SignedURLTTLSeconds
	}
	if override.MaxUploadMB > 0 {
		base.MaxUploadMB = override.MaxUploadMB
	}
	return base
}
