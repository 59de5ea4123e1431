// Package caldav imports busy events from a CalDAV server
// (Apple Calendar, Fastmail, Nextcloud, etc.).
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/felixgeelhaar/weekplan/internal/calendar/domain"
)

// Common CalDAV server URLs.
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// Importer pulls events from a CalDAV calendar.
type Importer struct {
	baseURL      string
	username     string
	password     string // App-specific password for Apple
	token        string // OAuth bearer token, takes precedence over basic auth
	calendarPath string // Specific calendar path, or empty for default
	logger       *slog.Logger
}

// NewImporter creates a CalDAV importer with basic auth.
func NewImporter(baseURL, username, password string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		baseURL:  baseURL,
		username: username,
		password: password,
		logger:   logger,
	}
}

// WithToken switches the importer to OAuth bearer authentication.
func (i *Importer) WithToken(token string) *Importer {
	i.token = token
	return i
}

// WithCalendarPath sets the specific calendar path to use.
func (i *Importer) WithCalendarPath(path string) *Importer {
	i.calendarPath = path
	return i
}

// FetchEvents returns the VEVENTs in [start, end) as calendar events.
func (i *Importer) FetchEvents(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Event, error) {
	client, err := i.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := i.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"SUMMARY", "DTSTART", "DTEND", "UID", "TRANSP", "STATUS"},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: start,
					End:   end,
				},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	var events []*domain.Event
	for _, obj := range objects {
		parsed, err := EventsFromCalendar(userID, obj.Data)
		if err != nil {
			i.logger.Warn("skipping unparseable calendar object",
				"path", obj.Path,
				"error", err,
			)
			continue
		}
		events = append(events, parsed...)
	}

	i.logger.Debug("caldav fetch completed",
		"calendar", calPath,
		"events", len(events),
	)

	return events, nil
}

// EventsFromCalendar converts the VEVENTs of a parsed iCalendar into
// domain events. Events marked TRANSPARENT or CANCELLED do not block
// time.
func EventsFromCalendar(userID uuid.UUID, cal *ical.Calendar) ([]*domain.Event, error) {
	if cal == nil {
		return nil, fmt.Errorf("empty calendar object")
	}

	var events []*domain.Event
	for _, component := range cal.Events() {
		uid, err := component.Props.Text(ical.PropUID)
		if err != nil || uid == "" {
			continue
		}

		start, err := component.DateTimeStart(time.UTC)
		if err != nil {
			return nil, fmt.Errorf("event %s: invalid DTSTART: %w", uid, err)
		}
		end, err := component.DateTimeEnd(time.UTC)
		if err != nil {
			return nil, fmt.Errorf("event %s: invalid DTEND: %w", uid, err)
		}

		summary, _ := component.Props.Text(ical.PropSummary)

		busy := true
		if transp, err := component.Props.Text(ical.PropTransparency); err == nil && transp == "TRANSPARENT" {
			busy = false
		}
		if status, err := component.Props.Text(ical.PropStatus); err == nil && status == "CANCELLED" {
			continue
		}

		event, err := domain.NewImportedEvent(userID, uid, domain.SourceCalDAV, summary, start, end, busy)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", uid, err)
		}
		events = append(events, event)
	}

	return events, nil
}

func (i *Importer) getClient() (*caldav.Client, error) {
	var httpClient webdav.HTTPClient
	if i.token != "" {
		httpClient = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: i.token},
		))
	} else {
		httpClient = webdav.HTTPClientWithBasicAuth(&http.Client{
			Timeout: 30 * time.Second,
		}, i.username, i.password)
	}

	client, err := caldav.NewClient(httpClient, i.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (i *Importer) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if i.calendarPath != "" {
		return i.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	// Use first calendar as default
	return cals[0].Path, nil
}
