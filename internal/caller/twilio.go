package caller

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/scrapex/outreach-engine/internal/config"
	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/pkg/twilio"
)

const twimlTmpl = `<?xml version="1.0" encoding="UTF-8"?>
        <Response>
            <Say voice="alice">Hello, this is an automated call from ScrapeX.
            %s
            </Say>
            <Gather numDigits="1" action="/call-response">
                <Say>Press 1 to speak with someone, or hang up to end the call.</Say>
            </Gather>
        </Response>`

// TwilioDialer places real outbound calls through the Twilio REST API with
// recording enabled.
type TwilioDialer struct {
	client      twilio.Client
	fromNumber  string
	callbackURL string
	now         func() time.Time
}

// NewTwilioDialer wires a dialer over the given Twilio client.
func NewTwilioDialer(client twilio.Client, cfg config.TwilioConfig) *TwilioDialer {
	return &TwilioDialer{
		client:      client,
		fromNumber:  cfg.FromNumber,
		callbackURL: cfg.CallbackURL,
		now:         time.Now,
	}
}

// Dial transitions rec to initiated and submits the call. On submission
// failure the record keeps the initiated status it reached.
func (d *TwilioDialer) Dial(ctx context.Context, rec *model.CallRecord) (*DialResult, error) {
	if err := rec.Transition(model.CallStatusInitiated); err != nil {
		return nil, err
	}
	started := d.now().UTC()
	rec.StartedAt = &started

	resp, err := d.client.CreateCall(ctx, twilio.CallRequest{
		To:                      rec.PhoneNumber,
		From:                    d.fromNumber,
		TwiML:                   voiceTwiML(rec.Script),
		Record:                  true,
		RecordingChannels:       "mono",
		RecordingStatusCallback: d.callbackURL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "caller: twilio call")
	}
	return &DialResult{ProviderSID: resp.SID}, nil
}

func voiceTwiML(script string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(script))
	return fmt.Sprintf(twimlTmpl, buf.String())
}
