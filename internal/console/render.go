package console

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

func (c *Console) newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func (c *Console) printRequests(requests []store.TransportRequest) {
	if len(requests) == 0 {
		c.info("No requests found")
		return
	}

	table := c.newTable("ID", "Status", "Cargo", "Weight (kg)", "From", "To", "Requester", "Hauler", "Created")
	table.AppendBulk(lo.Map(requests, func(r store.TransportRequest, _ int) []string {
		return []string{
			r.ID,
			statusLabel(r.Status),
			r.CargoCategory,
			strconv.FormatFloat(r.WeightKg, 'f', -1, 64),
			r.PickupPoint,
			r.Destination,
			r.RequesterName,
			lo.Ternary(r.AccepterName != "", r.AccepterName, "-"),
			relative(time.Now(), r.CreatedAt),
		}
	}))
	table.Render()
}

func (c *Console) printMessages(messages []store.Message) {
	if len(messages) == 0 {
		c.info("No messages")
		return
	}

	table := c.newTable("ID", "", "From", "Request", "Quote", "Message", "Sent")
	table.AppendBulk(lo.Map(messages, func(m store.Message, _ int) []string {
		quote := "-"
		if m.RatePerUnit != nil {
			quote = fmt.Sprintf("%s/unit, %s", strconv.FormatFloat(*m.RatePerUnit, 'f', -1, 64), m.EstimatedTime)
		}
		return []string{
			m.ID,
			lo.Ternary(m.Read, " ", color.Bold.Sprint("*")),
			m.SenderID,
			lo.Ternary(m.RequestID != "", m.RequestID, "-"),
			quote,
			m.Body,
			relative(time.Now(), m.CreatedAt),
		}
	}))
	table.Render()
}

func (c *Console) printSummary(rows [][2]string) {
	table := c.newTable("Metric", "Value")
	for _, row := range rows {
		table.Append([]string{row[0], row[1]})
	}
	table.Render()
}

func statusLabel(s store.RequestStatus) string {
	switch s {
	case store.StatusPending:
		return color.Yellow.Sprint(s)
	case store.StatusAccepted:
		return color.Green.Sprint(s)
	case store.StatusDelivered:
		return color.Gray.Sprint(s)
	}
	return string(s)
}

func relative(now, t time.Time) string {
	d := now.Sub(t).Round(time.Minute)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return t.Local().Format("2006-01-02")
}
