package kafka

import "testing"

func TestGetOrCreateWriterReusesWriter(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}})

	w1 := p.getOrCreateWriter("scoring.credit-score.events")
	w2 := p.getOrCreateWriter("scoring.credit-score.events")

	if w1 != w2 {
		t.Error("expected the same writer instance for repeated topic lookups")
	}

	w3 := p.getOrCreateWriter("scoring.fdc-feedback.events")
	if w1 == w3 {
		t.Error("expected a distinct writer per topic")
	}

	if err := p.Close(); err != nil {
		t.Errorf("close: %v", err)
	}

	if len(p.writers) != 0 {
		t.Errorf("expected writer map to be reset after Close, got %d entries", len(p.writers))
	}
}
