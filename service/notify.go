package service

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"contract-registry/mail"
	"contract-registry/types"
)

var digestTmpl = template.Must(template.New("digest").Parse(`<html><body>
<p>{{.Intro}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Protocol</th><th>Subject</th><th>Counterparty</th><th>End date</th><th>Change</th></tr>
{{range .Rows}}<tr>
<td>{{.Protocol}}</td><td>{{.Subject}}</td><td>{{.Counterparty}}</td><td>{{.EndDate}}</td><td>{{.Change}}</td>
</tr>{{end}}
</table>
</body></html>`))

type digestRow struct {
	Protocol     string
	Subject      string
	Counterparty string
	EndDate      string
	Change       string
}

var categorySubjects = map[int]string{
	types.CategoryExpiring: "Contracts expiring soon",
	types.CategoryExpired:  "Contracts expired",
	types.CategoryRenewed:  "Contracts renewed",
}

// Notifier fans scan results out as one digest mail per transition
// category. Delivery is best effort: every failure is logged and
// swallowed so it can never undo or fail the committed transitions.
type Notifier struct {
	resolver *RecipientResolver
	sender   mail.Sender
}

func NewNotifier(resolver *RecipientResolver, sender mail.Sender) *Notifier {
	return &Notifier{resolver: resolver, sender: sender}
}

// Notify groups the pass's results and sends each non-empty group to
// its configured recipients. It intentionally returns nothing.
func (n *Notifier) Notify(ctx context.Context, results []types.StateChangeResult) {
	groups := make(map[int][]types.StateChangeResult)
	for _, r := range results {
		if cat, ok := types.CategoryOf(r); ok {
			groups[cat] = append(groups[cat], r)
		}
	}

	for _, cat := range []int{types.CategoryExpiring, types.CategoryExpired, types.CategoryRenewed} {
		batch := groups[cat]
		if len(batch) == 0 {
			continue
		}
		n.sendDigest(ctx, cat, batch)
	}
}

func (n *Notifier) sendDigest(ctx context.Context, cat int, batch []types.StateChangeResult) {
	code, _ := types.CategoryCode(cat)

	res, err := n.resolver.Resolve(ctx, code)
	if err != nil {
		slog.Error("recipient resolution failed", "code", code, "err", err)
		return
	}
	if res == nil || len(res.Addresses) == 0 {
		slog.Debug("no recipients configured", "code", code)
		return
	}

	subject := n.subjectFor(cat, res.Subject, batch)
	body, err := renderDigest(cat, batch)
	if err != nil {
		slog.Error("digest rendering failed", "code", code, "err", err)
		return
	}

	if err := n.sender.Send(res.Addresses, subject, body); err != nil {
		slog.Error("digest send failed", "code", code, "recipients", len(res.Addresses), "err", err)
		return
	}
	slog.Info("digest sent", "code", code, "records", len(batch), "recipients", len(res.Addresses))
}

func (n *Notifier) subjectFor(cat int, ruleSubject string, batch []types.StateChangeResult) string {
	base := ruleSubject
	if base == "" {
		base = categorySubjects[cat]
	}
	if len(batch) == 1 {
		return fmt.Sprintf("%s: %s", base, describe(batch[0]))
	}
	return fmt.Sprintf("%s (%d records)", base, len(batch))
}

// describe picks the most specific descriptor a record carries.
func describe(r types.StateChangeResult) string {
	if r.ProtocolNumber != "" {
		return r.ProtocolNumber
	}
	if r.Subject != "" {
		return r.Subject
	}
	if r.Counterparty != "" {
		return r.Counterparty
	}
	return r.RecordID
}

func renderDigest(cat int, batch []types.StateChangeResult) (string, error) {
	data := struct {
		Intro string
		Rows  []digestRow
	}{
		Intro: fmt.Sprintf("%s: %d record(s) changed state in today's scan.", categorySubjects[cat], len(batch)),
	}

	for _, r := range batch {
		row := digestRow{
			Protocol:     r.ProtocolNumber,
			Subject:      r.Subject,
			Counterparty: r.Counterparty,
			Change:       fmt.Sprintf("%s → %s", types.StatusName(r.OldStatus), types.StatusName(r.NewStatus)),
		}
		if r.EndDate != nil {
			row.EndDate = r.EndDate.Format("2006-01-02")
		}
		if r.SuccessorID != "" {
			row.Change += fmt.Sprintf(" (successor %s)", r.SuccessorProtocol)
		}
		data.Rows = append(data.Rows, row)
	}

	var sb strings.Builder
	if err := digestTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
