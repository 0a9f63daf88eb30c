package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/rpupo63/research-portal-backend/models"
)

// ReviewNotifier tells submitters about review decisions.
type ReviewNotifier interface {
	ReviewDecided(ctx context.Context, p *models.Project) error
}

var reviewEmail = template.Must(template.New("review").Parse(`<p>Hello {{.Name}},</p>
{{if .Approved}}<p>Your project <strong>{{.Project}}</strong> was approved and is now listed on the products page.</p>
{{else}}<p>Your project <strong>{{.Project}}</strong> needs changes before it can be published.</p>
{{end}}{{if .Notes}}<p>Reviewer notes:</p>
<blockquote>{{.Notes}}</blockquote>
{{end}}<p><a href="{{.Link}}">Open the project in the portal</a></p>
`))

// EmailReviewNotifier emails the submitter through an EmailSender.
type EmailReviewNotifier struct {
	sender    EmailSender
	portalURL string
}

// NewEmailReviewNotifier links each email to portalURL/engineer/projects/{id}.
func NewEmailReviewNotifier(sender EmailSender, portalURL string) *EmailReviewNotifier {
	return &EmailReviewNotifier{sender: sender, portalURL: strings.TrimRight(portalURL, "/")}
}

func (n *EmailReviewNotifier) ReviewDecided(ctx context.Context, p *models.Project) error {
	if p.SubmittedBy == nil || p.SubmittedBy.Email == "" {
		return nil
	}

	approved := p.Status == models.StatusApproved
	data := struct {
		Name     string
		Project  string
		Approved bool
		Notes    string
		Link     string
	}{
		Name:     p.SubmittedBy.Name,
		Project:  p.Name,
		Approved: approved,
		Link:     fmt.Sprintf("%s/engineer/projects/%s", n.portalURL, p.ID),
	}
	if data.Name == "" {
		data.Name = p.SubmittedBy.Email
	}
	if p.ReviewNotes != nil {
		data.Notes = *p.ReviewNotes
	}

	var body bytes.Buffer
	if err := reviewEmail.Execute(&body, data); err != nil {
		return fmt.Errorf("render review email: %w", err)
	}

	subject := fmt.Sprintf("Changes requested: %s", p.Name)
	if approved {
		subject = fmt.Sprintf("Approved: %s", p.Name)
	}
	return n.sender.SendEmail(ctx, subject, body.String(), []string{p.SubmittedBy.Email})
}

type nopNotifier struct{}

func (nopNotifier) ReviewDecided(context.Context, *models.Project) error { return nil }
