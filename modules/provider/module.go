package provider

import (
	"context"

	"recruitsync/core/config"
	"recruitsync/core/constants"
	"recruitsync/core/database"
	"recruitsync/core/logger"
	"recruitsync/modules/provider/entity"
	"recruitsync/modules/provider/repository"
)

func Init(db database.IDatabase) {
	repo := repository.NewProviderRepository(db)
	seedProviders(repo)
}

// GetRepository returns a provider repository for use by other modules.
func GetRepository(db database.IDatabase) repository.ProviderRepositoryInterface {
	return repository.NewProviderRepository(db)
}

func seedProviders(repo repository.ProviderRepositoryInterface) {
	cfg, ok := config.GetSafe()
	if !ok {
		logger.Warn("Provider:SeedProviders:ConfigNotInitialized")
		return
	}

	seeds := []struct {
		name         string
		displayName  string
		lookbackDays int
		cfg          config.ProviderConfig
	}{
		{entity.ProviderMeetup, "Meetup", constants.MeetupRSVPLookbackDays, cfg.Providers.Meetup},
		{entity.ProviderEventbrite, "Eventbrite", constants.EventbriteRSVPLookbackDays, cfg.Providers.Eventbrite},
		{entity.ProviderFacebook, "Facebook", constants.FacebookRSVPLookbackDays, cfg.Providers.Facebook},
	}

	ctx := context.Background()
	for _, s := range seeds {
		if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
			logger.Info("Provider:SeedProviders:Skipped", "provider", s.name, "reason", "credentials not configured in env")
			continue
		}

		account := &entity.ProviderAccount{
			Name:             s.name,
			DisplayName:      s.displayName,
			APIBaseURL:       s.cfg.APIBaseURL,
			AuthURL:          s.cfg.AuthURL,
			TokenURL:         s.cfg.TokenURL,
			ClientID:         s.cfg.ClientID,
			ClientSecret:     s.cfg.ClientSecret,
			RSVPLookbackDays: s.lookbackDays,
			IsActive:         true,
		}
		if err := repo.Seed(ctx, account); err != nil {
			logger.Error("Provider:SeedProviders:Error", "error", err, "provider", s.name)
		}
	}
}
