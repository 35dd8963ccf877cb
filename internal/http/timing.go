package http

import "time"

// TimingInfo holds the duration of each phase of a request
type TimingInfo struct {
	StartTime       time.Time
	Connect         time.Duration
	Send            time.Duration
	TimeToFirstByte time.Duration // from the end of Send to the first response byte
	ContentTransfer time.Duration // from the first response byte to connection close
	Total           time.Duration
}

// ConnectMillis returns the TCP connect time in milliseconds
func (t TimingInfo) ConnectMillis() int64 { return t.Connect.Milliseconds() }

// SendMillis returns the time spent writing the request in milliseconds
func (t TimingInfo) SendMillis() int64 { return t.Send.Milliseconds() }

// TimeToFirstByteMillis returns the time to first byte in milliseconds
func (t TimingInfo) TimeToFirstByteMillis() int64 { return t.TimeToFirstByte.Milliseconds() }

// ContentTransferMillis returns the content transfer time in milliseconds
func (t TimingInfo) ContentTransferMillis() int64 { return t.ContentTransfer.Milliseconds() }

// TotalMillis returns the total request time in milliseconds
func (t TimingInfo) TotalMillis() int64 { return t.Total.Milliseconds() }
