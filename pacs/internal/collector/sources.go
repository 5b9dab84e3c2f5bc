package collector

import (
	"github.com/pacswatch/pacswatch/pacs/internal/config"
	"github.com/pacswatch/pacswatch/pkg/fetch"
	"github.com/pacswatch/pacswatch/pkg/poll"
)

// Sources builds a source per configured status page. A URL blanked
// out in the config drops its service from the poll set.
func Sources(cfg *config.Config, server string) ([]poll.Source, error) {
	client := fetch.NewClient(cfg.HTTPTimeout, "", "")

	type plain struct {
		url   string
		build func(server, url string, client getter) *StatusSource
	}
	plains := []plain{
		{cfg.URLs.Messaging, NewMessagingSource},
		{cfg.URLs.Worklist, NewWorklistSource},
		{cfg.URLs.ClientMessaging, NewClientMessagingSource},
		{cfg.URLs.Notifications, NewNotificationsSource},
		{cfg.URLs.Scheduler, NewSchedulerSource},
		{cfg.URLs.Sender, NewSenderSource},
	}

	var sources []poll.Source
	for _, p := range plains {
		if p.url == "" {
			continue
		}
		sources = append(sources, p.build(server, p.url, client))
	}

	if cfg.URLs.ApplicationServer != "" {
		user, password, err := cfg.App.AppCredentials()
		if err != nil {
			return nil, err
		}
		session, err := fetch.NewSession(cfg.HTTPTimeout, user, password)
		if err != nil {
			return nil, err
		}
		sources = append(sources,
			NewAppServerSource(server, cfg.URLs.ApplicationServer, cfg.App.Domain, session))
	}
	return sources, nil
}
