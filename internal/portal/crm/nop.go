package crm

import "context"

// NopNotifier drops every event. Used when no CRM webhook is configured,
// e.g. in local development.
type NopNotifier struct{}

func (NopNotifier) InviteCreated(context.Context, InviteCreatedEvent) error { return nil }
