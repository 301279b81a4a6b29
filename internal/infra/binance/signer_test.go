package binance

import "testing"

func TestSignerKnownVector(t *testing.T) {
	// Vector from the Binance API documentation.
	s := NewSigner("key", "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j")
	payload := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	want := "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71"

	if got := s.Sign(payload); got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}

func TestSignerAPIKey(t *testing.T) {
	s := NewSigner("my-api-key", "secret")
	if s.APIKey() != "my-api-key" {
		t.Errorf("APIKey() = %s", s.APIKey())
	}
}

func TestSignerWipe(t *testing.T) {
	s := NewSigner("my-api-key", "secret")
	s.Wipe()

	if s.APIKey() != "\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00" {
		t.Error("api key not zeroed")
	}

	var nilSigner *Signer
	nilSigner.Wipe() // must not panic
}
