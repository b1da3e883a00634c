package tui

import (
	"appicon/internal/pipeline"
	"appicon/internal/processor"
)

// FromPipeline turns a single batch's messages into progress updates for the
// model. The returned channel closes after the terminal message.
func FromPipeline(msgs <-chan pipeline.Message) <-chan processor.ProgressUpdate {
	out := make(chan processor.ProgressUpdate, cap(msgs))
	go func() {
		defer close(out)
		out <- processor.ProgressUpdate{TotalDelta: 1, Step: "Starting"}
		for msg := range msgs {
			switch msg.Type {
			case pipeline.TypeProgress:
				p := msg.Payload.(pipeline.ProgressPayload)
				out <- processor.ProgressUpdate{Percent: p.Progress, Step: p.CurrentStep}
			case pipeline.TypeComplete:
				c := msg.Payload.(pipeline.CompletePayload)
				var n int64
				for _, icon := range c.ProcessedIcons {
					n += int64(len(icon.Data))
				}
				out <- processor.ProgressUpdate{
					ProcessedDelta: 1,
					ErrorDelta:     len(c.Failures),
					IconDelta:      len(c.ProcessedIcons),
					BytesDelta:     n,
					Step:           "Complete",
				}
			case pipeline.TypeError:
				out <- processor.ProgressUpdate{ErrorDelta: 1, Step: msg.Payload.(pipeline.ErrorPayload).Error}
			case pipeline.TypeCancelled:
				out <- processor.ProgressUpdate{Step: "Cancelled"}
			}
		}
	}()
	return out
}
