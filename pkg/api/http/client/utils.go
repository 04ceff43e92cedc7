package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/seqward/stoker/pkg/structs"
)

// genericPost is a helper to POST data to a given URL and unmarshal the response
func genericPost(addr *url.URL, in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return genericPostRaw(addr, data, out)
}

// genericPostRaw is a helper to POST an already encoded body to a given URL
// and unmarshal the response
func genericPostRaw(addr *url.URL, data []byte, out interface{}) error {
	resp, err := http.Post(addr.String(), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	} else if resp.Body == nil {
		return fmt.Errorf("no response body with status code %d", resp.StatusCode)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 { // some error code, assume message is error message
		return fmt.Errorf("bad status code %d, returned %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}

// genericDelete is a helper to DELETE a given URL and unmarshal the response
func genericDelete(addr *url.URL, out interface{}) error {
	req, err := http.NewRequest(http.MethodDelete, addr.String(), nil)
	if err != nil {
		return err
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	} else if resp.Body == nil {
		return fmt.Errorf("no response body with status code %d", resp.StatusCode)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 { // some error code, assume message is error message
		return fmt.Errorf("bad status code %d, returned %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}

// genericGet is a helper to GET data from a given URL and unmarshal the response.
// Implies the Query string is already set, if needed.
func genericGet(addr *url.URL, out interface{}) error {
	resp, err := http.Get(addr.String())
	if err != nil {
		return err
	} else if resp.Body == nil { // there is no data to read
		if resp.StatusCode >= 400 {
			return fmt.Errorf("bad status code: %d", resp.StatusCode)
		}
		return nil
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 { // some error code, assume message is error message
		return fmt.Errorf("bad status code %d, returned %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}

// setQueryString sets the query string of a URL based on the given list options.
func setQueryString(u *url.URL, opts *structs.ListOptions) {
	if opts == nil {
		return
	}
	values := u.Query()

	if opts.MaxTerminal > 0 {
		values.Set("max_terminal", strconv.Itoa(opts.MaxTerminal))
	}

	u.RawQuery = values.Encode()
}

// streamMessages dials the websocket behind addr and relays its messages
// until the stream ends or ctx is done.
func streamMessages(ctx context.Context, addr *url.URL) (<-chan *structs.StreamMessage, error) {
	switch addr.Scheme {
	case "http":
		addr.Scheme = "ws"
	case "https":
		addr.Scheme = "wss"
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, addr.String(), nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if len(body) > 0 {
				return nil, fmt.Errorf("bad status code %d, returned %s", resp.StatusCode, string(body))
			}
		}
		return nil, err
	}

	out := make(chan *structs.StreamMessage)
	go func() {
		defer close(out)
		defer conn.Close()

		// closing the conn unblocks ReadJSON when the caller gives up
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()

		for {
			msg := &structs.StreamMessage{}
			if err := conn.ReadJSON(msg); err != nil {
				return // normal close, dropped conn or cancelled ctx
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
			if msg.IsEnd() {
				return
			}
		}
	}()
	return out, nil
}
