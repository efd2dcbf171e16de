package client

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Filter", func() {
	tickets := []Ticket{
		{ID: "1", Title: "Printer jam on floor 3", Description: "paper stuck", Status: "Open", Priority: "High"},
		{ID: "2", Title: "Slow laptop", Description: "the printer driver install hangs", Status: "In Progress", Priority: "Low"},
		{ID: "3", Title: "VPN drops", Description: "disconnects hourly", Status: "Closed", Priority: "High"},
	}

	It("passes everything through with all-sentinel dimensions", func() {
		result := Filter{Status: FilterAll, Priority: FilterAll}.Apply(tickets)
		Expect(result).To(HaveLen(3))
	})

	It("treats empty dimensions as bypassed", func() {
		result := Filter{}.Apply(tickets)
		Expect(result).To(HaveLen(3))
	})

	It("combines dimensions with AND", func() {
		result := Filter{Status: "Open", Priority: "High"}.Apply(tickets)
		Expect(result).To(HaveLen(1))
		Expect(result[0].ID).To(Equal("1"))

		result = Filter{Status: "Closed", Priority: "Low"}.Apply(tickets)
		Expect(result).To(BeEmpty())
	})

	It("matches status case-insensitively", func() {
		result := Filter{Status: "in progress"}.Apply(tickets)
		Expect(result).To(HaveLen(1))
		Expect(result[0].ID).To(Equal("2"))
	})

	It("searches title and description case-insensitively", func() {
		result := Filter{Search: "PRINTER"}.Apply(tickets)
		Expect(result).To(HaveLen(2))
		Expect([]string{result[0].ID, result[1].ID}).To(ConsistOf("1", "2"))
	})

	It("applies search together with the other dimensions", func() {
		result := Filter{Status: "Open", Search: "printer"}.Apply(tickets)
		Expect(result).To(HaveLen(1))
		Expect(result[0].ID).To(Equal("1"))
	})
})

var _ = Describe("CountByStatus", func() {
	It("counts each status and derives active", func() {
		counts := CountByStatus([]Ticket{
			{Status: "Open"},
			{Status: "Open"},
			{Status: "In Progress"},
			{Status: "Closed"},
		})
		Expect(counts.Total).To(Equal(4))
		Expect(counts.Open).To(Equal(2))
		Expect(counts.InProgress).To(Equal(1))
		Expect(counts.Closed).To(Equal(1))
		Expect(counts.Active).To(Equal(3))
	})

	It("handles an empty list", func() {
		counts := CountByStatus(nil)
		Expect(counts.Total).To(BeZero())
		Expect(counts.Active).To(BeZero())
	})
})
