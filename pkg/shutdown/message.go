package shutdown

import (
	"bufio"
	"io"
	"strings"
)

// LineMessages reads newline-delimited supervisor messages from r, such as a
// pipe inherited from a process manager. The channel is closed when r is
// exhausted or fails.
func LineMessages(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			msg := strings.TrimSpace(scanner.Text())
			if msg == "" {
				continue
			}
			ch <- msg
		}
	}()
	return ch
}
