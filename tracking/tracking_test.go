package tracking_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/tracking"
)

func titles(steps []tracking.Step) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Title)
	}
	return out
}

var _ = Describe("Project", func() {
	var (
		now     time.Time
		created time.Time
		updated time.Time
		order   models.Order
	)

	BeforeEach(func() {
		now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		created = now.Add(-2 * time.Hour)
		updated = now.Add(-30 * time.Minute)
		order = models.Order{ID: "ord-1", CreatedAt: created, UpdatedAt: updated}
	})

	Context("when the driver has been assigned", func() {
		BeforeEach(func() {
			order.Status = models.StatusDriverAssigned
		})

		It("uses the canonical label, progress and cancel flag", func() {
			t := tracking.Project(order, now)
			Expect(t.OrderID).To(Equal("ord-1"))
			Expect(t.Label).To(Equal("Driver Assigned"))
			Expect(t.Style).To(Equal(models.StyleBlue))
			Expect(t.Progress).To(Equal(45))
			Expect(t.Cancellable).To(BeTrue())
			Expect(t.DriverAssigned).To(BeTrue())
		})

		It("shows the awaiting-acceptance step as current", func() {
			steps := tracking.Project(order, now).Steps
			Expect(titles(steps)).To(Equal([]string{
				"Order Placed",
				"Payment Confirmed",
				"Driver Assigned",
				"Awaiting Driver Acceptance",
			}))
			last := steps[len(steps)-1]
			Expect(last.State).To(Equal(tracking.StepCurrent))
			Expect(last.At).To(BeNil())
		})

		It("estimates delivery three hours out", func() {
			t := tracking.Project(order, now)
			Expect(t.EstimatedDelivery).NotTo(BeNil())
			Expect(*t.EstimatedDelivery).To(Equal(now.Add(3 * time.Hour)))
		})
	})

	Context("when the order is being prepared", func() {
		It("lists out-for-delivery as a pending step", func() {
			order.Status = models.StatusProcessing
			steps := tracking.Project(order, now).Steps
			Expect(titles(steps)).To(Equal([]string{
				"Order Placed",
				"Payment Confirmed",
				"Driver Assigned",
				"Driver Accepted",
				"Preparing for Delivery",
				"Out for Delivery",
			}))
			Expect(steps[len(steps)-1].State).To(Equal(tracking.StepPending))
			Expect(steps[len(steps)-1].Completed()).To(BeFalse())
		})
	})

	Context("when the fuel is on the road", func() {
		It("marks out-for-delivery as current and estimates 45 minutes", func() {
			order.Status = models.StatusOutForDelivery
			t := tracking.Project(order, now)
			last := t.Steps[len(t.Steps)-1]
			Expect(last.Title).To(Equal("Out for Delivery"))
			Expect(last.State).To(Equal(tracking.StepCurrent))
			Expect(*t.EstimatedDelivery).To(Equal(now.Add(45 * time.Minute)))
		})
	})

	Context("when the order was delivered", func() {
		BeforeEach(func() {
			order.Status = models.StatusDelivered
		})

		It("completes every step", func() {
			t := tracking.Project(order, now)
			Expect(t.Label).To(Equal("Delivered"))
			Expect(t.Progress).To(Equal(100))
			Expect(t.Cancellable).To(BeFalse())
			Expect(t.Steps).To(HaveLen(7))
			for _, s := range t.Steps {
				Expect(s.State).To(Equal(tracking.StepCompleted), s.Title)
			}
		})

		It("has no delivery estimate", func() {
			Expect(tracking.Project(order, now).EstimatedDelivery).To(BeNil())
		})
	})

	Context("when the order was cancelled", func() {
		It("ends the timeline with an error step", func() {
			order.Status = models.StatusCancelled
			t := tracking.Project(order, now)
			Expect(titles(t.Steps)).To(Equal([]string{"Order Placed", "Order Cancelled"}))
			Expect(t.Steps[1].State).To(Equal(tracking.StepError))
			Expect(t.Steps[1].Completed()).To(BeTrue())
			Expect(t.Style).To(Equal(models.StyleRed))
			Expect(t.DriverAssigned).To(BeFalse())
			Expect(t.EstimatedDelivery).To(BeNil())
		})
	})

	Context("when the status is unknown", func() {
		It("falls back without failing", func() {
			order.Status = "awaiting_review"
			t := tracking.Project(order, now)
			Expect(t.Label).To(Equal("Awaiting_review"))
			Expect(t.Style).To(Equal(models.StyleUnknown))
			Expect(t.Progress).To(BeZero())
			Expect(titles(t.Steps)).To(Equal([]string{"Order Placed"}))
			Expect(*t.EstimatedDelivery).To(Equal(now.Add(2 * time.Hour)))
		})
	})

	It("stamps steps with the order timestamps", func() {
		order.Status = models.StatusPaid
		steps := tracking.Project(order, now).Steps
		Expect(*steps[0].At).To(Equal(created))
		Expect(*steps[1].At).To(Equal(updated))
	})

	It("leaves timestamps empty when the API sent none", func() {
		order = models.Order{ID: "ord-2", Status: models.StatusInitiated}
		steps := tracking.Project(order, now).Steps
		Expect(steps[0].At).To(BeNil())
	})
})

var _ = DescribeTable("EstimatedDelivery",
	func(status models.OrderStatus, want time.Duration, ok bool) {
		now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
		eta, got := tracking.EstimatedDelivery(status, now)
		Expect(got).To(Equal(ok))
		if ok {
			Expect(eta.Sub(now)).To(Equal(want))
		}
	},
	Entry("initiated", models.StatusInitiated, 4*time.Hour, true),
	Entry("paid", models.StatusPaid, 4*time.Hour, true),
	Entry("driver assigned", models.StatusDriverAssigned, 3*time.Hour, true),
	Entry("driver accepted", models.StatusDriverAccepted, 2*time.Hour, true),
	Entry("processing", models.StatusProcessing, 2*time.Hour, true),
	Entry("out for delivery", models.StatusOutForDelivery, 45*time.Minute, true),
	Entry("delivered", models.StatusDelivered, time.Duration(0), false),
	Entry("cancelled", models.StatusCancelled, time.Duration(0), false),
)
