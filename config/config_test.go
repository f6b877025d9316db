package config

import "testing"

func TestLookupIntPrefersPrimary(t *testing.T) {
	t.Setenv("HKN_THREADS", "")
	t.Setenv("HAKONYANS_THREADS", "")
	if got := lookupInt("HKN_THREADS", "HAKONYANS_THREADS", 7); got != 7 {
		t.Fatalf("got %d, want default 7", got)
	}
	t.Setenv("HAKONYANS_THREADS", "3")
	if got := lookupInt("HKN_THREADS", "HAKONYANS_THREADS", 7); got != 3 {
		t.Fatalf("got %d, want fallback value 3", got)
	}
	t.Setenv("HKN_THREADS", "5")
	if got := lookupInt("HKN_THREADS", "HAKONYANS_THREADS", 7); got != 5 {
		t.Fatalf("got %d, want primary value 5", got)
	}
}

func TestLookupIntClampsAndRejectsInvalid(t *testing.T) {
	t.Setenv("HKN_THREADS", "not-a-number")
	t.Setenv("HAKONYANS_THREADS", "9999")
	if got := lookupInt("HKN_THREADS", "HAKONYANS_THREADS", 1); got != 256 {
		t.Fatalf("got %d, want clamped 256", got)
	}
}

func TestLookupBoolDefaultsFalse(t *testing.T) {
	t.Setenv("HKN_DISABLE_OPTIMAL_PARSE", "")
	t.Setenv("HAKONYANS_DISABLE_OPTIMAL_PARSE", "")
	if lookupBool("HKN_DISABLE_OPTIMAL_PARSE", "HAKONYANS_DISABLE_OPTIMAL_PARSE") {
		t.Fatalf("expected false default")
	}
	t.Setenv("HKN_DISABLE_OPTIMAL_PARSE", "true")
	if !lookupBool("HKN_DISABLE_OPTIMAL_PARSE", "HAKONYANS_DISABLE_OPTIMAL_PARSE") {
		t.Fatalf("expected true")
	}
}

func TestThreadsOrDefault(t *testing.T) {
	c := Config{Threads: 6}
	if c.ThreadsOrDefault() != 6 {
		t.Fatalf("expected explicit Threads to win")
	}
	c = Config{}
	if c.ThreadsOrDefault() <= 0 {
		t.Fatalf("expected a positive GOMAXPROCS fallback")
	}
}
