package jobs

import (
	"context"
	"fmt"

	"github.com/linkhive/linkhive/domain"
)

type RevalidateSessionsConfig struct {
	DryRun bool `mapstructure:"dry_run"`
}

// RevalidateSessions re-runs the stored API login for every api-variant
// site config that has a site_login credential, so broken logins are
// noticed before a feed refresh silently fetches logged-out content.
func (h *Handler) RevalidateSessions(ctx context.Context, c Config) error {
	var cfg RevalidateSessionsConfig
	if err := c.Decode(&cfg); err != nil {
		return fmt.Errorf("invalid config for %s job: %w", TypeRevalidateSessions, err)
	}

	configs, err := h.siteConfigService.Find(ctx, domain.ListSiteConfigsFilter{
		LoginTypes: []string{string(domain.LoginTypeAPI)},
	})
	if err != nil {
		return fmt.Errorf("listing api site configs: %w", err)
	}

	for _, sc := range configs {
		if err := h.revalidateSession(ctx, sc, cfg.DryRun); err != nil {
			h.logger.Error(ctx, "session revalidation failed", "site_config", sc.ID, "name", sc.Name, "error", err)
		}
	}
	return nil
}

func (h *Handler) revalidateSession(ctx context.Context, sc *domain.SiteConfig, dryRun bool) error {
	credentials, err := h.credentialService.Find(ctx, domain.ListCredentialsFilter{
		Kinds:        []string{string(domain.CredentialKindSiteLogin)},
		SiteConfigID: sc.ID,
	})
	if err != nil {
		return err
	}
	if len(credentials) == 0 {
		h.logger.Debug(ctx, "no site_login credential, skipping", "site_config", sc.ID)
		return nil
	}

	revealed, err := h.credentialService.Reveal(ctx, credentials[0].ID)
	if err != nil {
		return err
	}
	username, _ := revealed.Data["username"].(string)
	password, _ := revealed.Data["password"].(string)

	if dryRun {
		h.logger.Info(ctx, "dry run, skipping probe", "site_config", sc.ID)
		return nil
	}

	result, err := h.prober.Probe(ctx, sc, username, password)
	if err != nil {
		return err
	}
	if !result.Succeeded {
		return fmt.Errorf("login probe failed: status %d, missing cookies %v", result.StatusCode, result.MissingCookies)
	}

	h.logger.Info(ctx, "session still valid", "site_config", sc.ID, "name", sc.Name)
	return nil
}
