package stores

import (
	"context"
	"net/url"
	"strings"

	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/validation"
)

// SupportStore manages the user's support tickets.
type SupportStore struct {
	base
}

func (s *SupportStore) Categories(ctx context.Context, sess *Session) ([]models.Category, error) {
	var cats []models.Category
	if _, err := s.client(sess).Get(ctx, "/support/categories", &cats); err != nil {
		return nil, wrap("fetch categories", err)
	}
	return cats, nil
}

func (s *SupportStore) Tickets(ctx context.Context, sess *Session) ([]models.Ticket, error) {
	var tickets []models.Ticket
	env, err := s.client(sess).Get(ctx, "/support/tickets", &tickets)
	if err != nil {
		return nil, wrap("fetch tickets", err)
	}
	if err := requireSuccess(env, "Failed to fetch tickets"); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *SupportStore) Ticket(ctx context.Context, sess *Session, id string) (models.Ticket, error) {
	var t models.Ticket
	env, err := s.client(sess).Get(ctx, "/support/tickets/"+url.PathEscape(id), &t)
	if err != nil {
		return models.Ticket{}, wrap("fetch ticket", err)
	}
	if err := requireSuccess(env, "Ticket not found"); err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

// CreateTicket opens a ticket and returns it as stored by the API.
func (s *SupportStore) CreateTicket(ctx context.Context, sess *Session, categoryID, message string) (models.Ticket, error) {
	req := map[string]string{"categoryId": strings.TrimSpace(categoryID), "message": strings.TrimSpace(message)}
	if err := validation.Ticket.Validate(req); err != nil {
		return models.Ticket{}, err
	}

	var t models.Ticket
	env, err := s.client(sess).Post(ctx, "/support/tickets", req, &t)
	if err != nil {
		return models.Ticket{}, wrap("create ticket", err)
	}
	if err := requireSuccess(env, "Failed to create ticket"); err != nil {
		return models.Ticket{}, err
	}

	s.publish(ctx, sess, models.Event{Type: models.EventTicketCreated, TicketID: t.Key()})
	return t, nil
}

func (s *SupportStore) Reply(ctx context.Context, sess *Session, id, message string) error {
	req := map[string]string{"message": strings.TrimSpace(message)}
	if err := validation.Reply.Validate(req); err != nil {
		return err
	}
	env, err := s.client(sess).Post(ctx, "/support/tickets/"+url.PathEscape(id)+"/reply", req, nil)
	if err != nil {
		return wrap("reply to ticket", err)
	}
	return requireSuccess(env, "Failed to send reply")
}

func (s *SupportStore) CloseTicket(ctx context.Context, sess *Session, id string) error {
	env, err := s.client(sess).Patch(ctx, "/support/tickets/"+url.PathEscape(id)+"/close", nil, nil)
	if err != nil {
		return wrap("close ticket", err)
	}
	return requireSuccess(env, "Failed to close ticket")
}

// FilterTickets matches search against message and id; status "ALL" or ""
// matches every ticket.
func FilterTickets(tickets []models.Ticket, search, status string) []models.Ticket {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []models.Ticket
	for _, t := range tickets {
		if status != "" && status != "ALL" && string(t.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Message), search) &&
			!strings.Contains(strings.ToLower(t.Key()), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}
