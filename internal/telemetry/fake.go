package telemetry

// FakePublisher records published snapshots for tests.
type FakePublisher struct {
	// Published lists snapshots in publish order.
	Published []Status
	// Err, when set, fails every publish.
	Err error
	// Closed reports whether Close was called.
	Closed bool
}

// PublishStatus records the snapshot.
func (f *FakePublisher) PublishStatus(s Status) error {
	if f.Err != nil {
		return f.Err
	}

	f.Published = append(f.Published, s)

	return nil
}

// Close marks the publisher closed.
func (f *FakePublisher) Close() {
	f.Closed = true
}
