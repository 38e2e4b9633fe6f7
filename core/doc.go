// Package realtime is the client side of the Coda realtime event stream.
//
// A Client keeps one websocket connection to the backend open, reconnecting
// with backoff when it drops, decodes every inbound frame into a typed
// event and delivers connection statuses and events to registered observers
// on a single goroutine, in the order they happened:
//
//	client, err := realtime.NewClient("ws://localhost:8000/ws")
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	client.RegisterObserver(realtime.Callbacks{
//		OnTranscription: func(text string) { fmt.Println("user:", text) },
//		OnResponse:      func(text string) { fmt.Println("assistant:", text) },
//	})
//	client.Connect()
package realtime
