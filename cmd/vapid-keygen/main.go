// Command vapid-keygen generates a VAPID key pair for Web Push delivery.
// The output feeds the NOTEFLOW_PUSH_VAPID_PUBLIC_KEY and
// NOTEFLOW_PUSH_VAPID_PRIVATE_KEY configuration settings; the public key is
// also what browser clients pass to PushManager.subscribe.
package main

import (
	"fmt"
	"log"

	webpush "github.com/SherClockHolmes/webpush-go"
)

func main() {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Fatalf("Failed to generate VAPID keys: %v", err)
	}

	fmt.Printf("NOTEFLOW_PUSH_VAPID_PUBLIC_KEY=%s\n", publicKey)
	fmt.Printf("NOTEFLOW_PUSH_VAPID_PRIVATE_KEY=%s\n", privateKey)
}
