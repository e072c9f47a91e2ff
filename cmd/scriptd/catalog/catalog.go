// Package catalog provides seed content for new scripts, keyed by
// (type, objective). The catalog is built at startup and injected into the
// lifecycle service; there is no package-level template table.
package catalog

import (
	"github.com/callready/scriptd/cmd/scriptd/models"
)

type key struct {
	scriptType models.ScriptType
	objective  string
}

// Catalog is a read-only lookup of content templates
type Catalog struct {
	templates map[key]models.Content
}

// Get returns the template for a (type, objective) pair. The second return
// is false when no template covers the pair; a partial template is never
// returned.
func (c *Catalog) Get(scriptType models.ScriptType, objective string) (models.Content, bool) {
	tpl, ok := c.templates[key{scriptType, objective}]
	return tpl, ok
}

// Pairs returns every (type, objective) combination the catalog covers
func (c *Catalog) Pairs() [][2]string {
	pairs := make([][2]string, 0, len(c.templates))
	for k := range c.templates {
		pairs = append(pairs, [2]string{string(k.scriptType), k.objective})
	}
	return pairs
}

// Default builds the standard template catalog. Templates carry
// {placeholder} tokens, so a template-seeded script has a populated
// variables set immediately after construction.
func Default() *Catalog {
	return &Catalog{templates: map[key]models.Content{
		{models.TypeCall, "lead_generation"}: {
			Opening: "Hi {firstName}, this is {agentName} calling from {company}. Do you have a quick minute?",
			MainPoints: []string{
				"We help businesses like {prospectCompany} reduce {painPoint}.",
				"Clients typically see results within {timeframe}.",
				"I'd love to learn how you currently handle {topic}.",
			},
			ObjectionHandling: map[string]string{
				"not_interested": "I understand, {firstName}. Could I ask what solution you're using for {topic} today?",
				"no_time":        "Of course — when would be a better time to reach you this week?",
				"send_info":      "Happy to. I'll send a short overview to {email} and follow up in a few days.",
			},
			Closing: "Thanks for your time, {firstName}. I'll follow up with the details we discussed.",
			FallbackResponses: []string{
				"That's a fair point — let me explain how we handle that.",
				"I may not have the full answer on that; I'll check and get back to you.",
			},
		},
		{models.TypeCall, "appointment_setting"}: {
			Opening: "Hello {firstName}, {agentName} here from {company}. I'm reaching out to set up a brief call with our specialist.",
			MainPoints: []string{
				"The meeting takes about {duration} minutes.",
				"You'll get a tailored overview of {offering} for {prospectCompany}.",
			},
			ObjectionHandling: map[string]string{
				"too_busy": "Completely understand, {firstName}. Would {alternativeTime} work better?",
			},
			Closing: "Great — I'll send an invite for {appointmentTime} to {email}. Looking forward to it!",
			FallbackResponses: []string{
				"Let me double-check availability and circle back.",
			},
		},
		{models.TypeCall, "follow_up"}: {
			Opening: "Hi {firstName}, it's {agentName} from {company}, following up on our conversation from {lastContactDate}.",
			MainPoints: []string{
				"You mentioned {previousTopic} was a priority.",
				"Since we spoke, we've {update}.",
			},
			ObjectionHandling: map[string]string{
				"still_deciding": "No pressure at all — what questions can I answer to help you decide?",
			},
			Closing: "Thanks again, {firstName}. I'll stay in touch.",
			FallbackResponses: []string{
				"Happy to go over any part of it again.",
			},
		},
		{models.TypeSMS, "lead_generation"}: {
			MainPoints: []string{
				"Hi {firstName}, {agentName} from {company} here. We help teams like {prospectCompany} with {painPoint}. Interested in a quick chat? Reply YES and I'll set it up.",
			},
			FallbackResponses: []string{
				"No problem — reply STOP to opt out anytime.",
			},
		},
		{models.TypeSMS, "follow_up"}: {
			MainPoints: []string{
				"Hi {firstName}, just following up on my last message about {topic}. Still a good time to connect this week?",
			},
			FallbackResponses: []string{
				"Thanks for letting me know — I'll check back in {timeframe}.",
			},
		},
		{models.TypeEmail, "lead_generation"}: {
			Opening: "Hi {firstName},\n\nI'm {agentName} with {company}. I noticed {prospectCompany} has been growing, and growth usually brings {painPoint}.",
			MainPoints: []string{
				"We've helped similar teams cut {painPoint} by {improvement}.",
				"Setup takes under {timeframe}, with no disruption to your current workflow.",
			},
			Closing: "Would you be open to a 15-minute call this week?\n\nBest,\n{agentName}",
			FallbackResponses: []string{
				"If now isn't the right time, I'm happy to reconnect next quarter.",
			},
		},
	}}
}
