package catalog

import (
	"testing"

	"github.com/callready/scriptd/cmd/scriptd/models"
	"github.com/callready/scriptd/common/variables"
)

func TestDefault_KnownPairs(t *testing.T) {
	cat := Default()

	pairs := []struct {
		scriptType models.ScriptType
		objective  string
	}{
		{models.TypeCall, "lead_generation"},
		{models.TypeCall, "appointment_setting"},
		{models.TypeCall, "follow_up"},
		{models.TypeSMS, "lead_generation"},
		{models.TypeSMS, "follow_up"},
		{models.TypeEmail, "lead_generation"},
	}

	for _, pair := range pairs {
		if _, ok := cat.Get(pair.scriptType, pair.objective); !ok {
			t.Errorf("missing template for %s/%s", pair.scriptType, pair.objective)
		}
	}
}

func TestDefault_UnknownPair(t *testing.T) {
	cat := Default()

	if _, ok := cat.Get(models.TypeEmail, "survey"); ok {
		t.Error("unexpected template for email/survey")
	}
	if _, ok := cat.Get("fax", "lead_generation"); ok {
		t.Error("unexpected template for unknown type")
	}
}

func TestTemplatesCarryPlaceholders(t *testing.T) {
	cat := Default()

	for _, pair := range cat.Pairs() {
		tpl, ok := cat.Get(models.ScriptType(pair[0]), pair[1])
		if !ok {
			t.Fatalf("pair %v vanished", pair)
		}
		if names := variables.Extract(tpl); len(names) == 0 {
			t.Errorf("template %s/%s has no placeholders", pair[0], pair[1])
		}
	}
}

func TestSMSTemplatesPassValidation(t *testing.T) {
	cat := Default()

	// Every sms template must satisfy the sms content rule when seeded
	for _, objective := range []string{"lead_generation", "follow_up"} {
		tpl, ok := cat.Get(models.TypeSMS, objective)
		if !ok {
			t.Fatalf("missing sms/%s", objective)
		}
		s := &models.Script{Name: "Seeded", Type: models.TypeSMS, Content: tpl}
		s.ApplyDefaults()
		if errs := s.Validate(); len(errs) != 0 {
			t.Errorf("sms/%s template fails validation: %v", objective, errs)
		}
	}
}

func TestCallTemplatesPassValidation(t *testing.T) {
	cat := Default()

	for _, objective := range []string{"lead_generation", "appointment_setting", "follow_up"} {
		tpl, ok := cat.Get(models.TypeCall, objective)
		if !ok {
			t.Fatalf("missing call/%s", objective)
		}
		s := &models.Script{Name: "Seeded", Type: models.TypeCall, Content: tpl}
		s.ApplyDefaults()
		if errs := s.Validate(); len(errs) != 0 {
			t.Errorf("call/%s template fails validation: %v", objective, errs)
		}
	}
}
