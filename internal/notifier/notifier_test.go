package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"ChanSentinel/internal/chanlun"
	"ChanSentinel/internal/model"
)

func testNotifier(srv *httptest.Server) *TelegramNotifier {
	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL
	tn.Limiter = rate.NewLimiter(rate.Inf, 1)
	return tn
}

func TestSend_Payload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := testNotifier(srv).Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "<b>hi</b>" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := testNotifier(srv).SendWithRetry(context.Background(), "hello", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 calls, got %d", n)
	}
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := testNotifier(srv).SendWithRetry(context.Background(), "hello", 0); err == nil {
		t.Error("expected an error when every attempt fails")
	}
}

func TestEnabled(t *testing.T) {
	if NewTelegramNotifier("", "42", "").Enabled() {
		t.Error("notifier without token should be disabled")
	}
	if !NewTelegramNotifier("t", "42", "").Enabled() {
		t.Error("notifier with token and chat should be enabled")
	}
}

func TestStartPolling_RepliesToCommand(t *testing.T) {
	var polls int32
	replies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if atomic.AddInt32(&polls, 1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /status "}}]}`))
				return
			}
			if r.URL.Query().Get("offset") != "8" {
				t.Errorf("offset = %s, want 8", r.URL.Query().Get("offset"))
			}
			time.Sleep(10 * time.Millisecond)
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			select {
			case replies <- body["text"]:
			default:
			}
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		testNotifier(srv).StartPolling(ctx, func(_ context.Context, cmd string) string {
			return "got " + cmd
		})
	}()

	select {
	case reply := <-replies:
		if reply != "got /status" {
			t.Errorf("reply = %q, want %q", reply, "got /status")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reply")
	}
	cancel()
	wg.Wait()
}

func TestFormatAnalysisReport(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	res := chanlun.AnalyzeLevels(nil, chanlun.DefaultParams())

	points := []model.TradePoint{{Type: model.Buy1, Time: at, Price: 28, Strength: 0.87, Description: "下跌笔背驰"}}
	nested := []model.NestedTradePoint{{TradePoint: points[0], ConfirmedLevels: []int{2, 3}}}

	msg := FormatAnalysisReport("SPX", res, points, nested, at)
	for _, want := range []string{"SPX", "2024-03-01 09:30", "一买", "28.00", "下跌笔背驰", "L2,L3", "L1:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	quiet := FormatAnalysisReport("SPX", res, nil, nil, at)
	if !strings.Contains(quiet, "暂无新的买卖点") {
		t.Errorf("expected the no-signal line:\n%s", quiet)
	}
}

func TestFormatTradePoint_EscapesDescription(t *testing.T) {
	line := FormatTradePoint(model.TradePoint{Type: model.Sell3, Description: "a < b"})
	if !strings.Contains(line, "a &lt; b") || !strings.Contains(line, "三卖") {
		t.Errorf("unexpected line: %s", line)
	}
}
