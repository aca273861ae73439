package notifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Signature header names carried on signed deliveries.
const (
	HeaderSignature = "X-Flagkit-Signature"
	HeaderTimestamp = "X-Flagkit-Timestamp"
)

// SignPayload computes the delivery signature for a payload at the
// given time. The signature is HMAC-SHA256(secret, timestamp + "." +
// payload), hex encoded. Binding the timestamp into the signed bytes
// lets receivers reject replayed deliveries.
func SignPayload(secret string, payload []byte, at time.Time) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", at.Unix(), payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a received payload against its signature
// headers. maxAge bounds how old a signed delivery may be; zero
// disables the age check.
func VerifySignature(secret string, payload []byte, signature, timestamp string, maxAge time.Duration) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}

	if maxAge > 0 {
		age := time.Since(time.Unix(ts, 0))
		if age > maxAge {
			return fmt.Errorf("%w: timestamp too old", ErrInvalidSignature)
		}
		if age < -time.Minute {
			return fmt.Errorf("%w: timestamp in the future", ErrInvalidSignature)
		}
	}

	expected := SignPayload(secret, payload, time.Unix(ts, 0))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidSignature)
	}
	return nil
}
