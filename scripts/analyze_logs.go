package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors        int
	OrdersPlaced       int
	CheckoutRejections int
	CouponsApplied     int
	CouponRejections   int
	PaymentsVerified   int
	PaymentFailures    int
	EmailsSent         int
	DeliveryFailures   int
	AdminLogins        int
	AdminLoginFailures int
	RateLimited        int
	StatusCounts       map[int]int
	CouponReasons      map[string]int
	ErrorPatterns      map[string]int
}

var (
	statusRegex   = regexp.MustCompile(`Status: (\d{3})`)
	rejectedRegex = regexp.MustCompile(`Coupon \S+ rejected: (.+)$`)
	// log.Lshortfile prefix: "ERROR: 2024/01/02 15:04:05 file.go:12: message"
	messageRegex = regexp.MustCompile(`^\w+: \S+ \S+ \S+\.go:\d+: (.*)$`)
	digitsRegex  = regexp.MustCompile(`\b[0-9a-f]{8}-[0-9a-f-]{27}\b|\b\d+\b`)
)

func newLogStats() *LogStats {
	return &LogStats{
		StatusCounts:  make(map[int]int),
		CouponReasons: make(map[string]int),
		ErrorPatterns: make(map[string]int),
	}
}

func main() {
	logDir := flag.String("dir", "./logs", "directory holding the storefront log files")
	day := flag.String("day", time.Now().Format("2006-01-02"), "log day to analyze (YYYY-MM-DD)")
	flag.Parse()

	stats := newLogStats()
	for _, f := range []struct {
		name    string
		analyze func(io.Reader, *LogStats) error
	}{
		{fmt.Sprintf("error-%s.log", *day), analyzeErrorLog},
		{fmt.Sprintf("info-%s.log", *day), analyzeInfoLog},
	} {
		path := filepath.Join(*logDir, f.name)
		file, err := os.Open(path)
		if err != nil {
			fmt.Printf("Error opening log file %s: %v\n", path, err)
			continue
		}
		if err := f.analyze(file, stats); err != nil {
			fmt.Printf("Error reading log file %s: %v\n", path, err)
		}
		file.Close()
	}

	printReport(os.Stdout, stats)
}

func analyzeErrorLog(r io.Reader, stats *LogStats) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "ERROR: ") {
			continue
		}
		stats.TotalErrors++

		switch {
		case strings.Contains(line, "Payment verification failed"):
			stats.PaymentFailures++
		case strings.Contains(line, "Outbox message") && strings.Contains(line, "failed"):
			stats.DeliveryFailures++
		case strings.Contains(line, "Invalid password for admin"), strings.Contains(line, "Admin login for unknown username"):
			stats.AdminLoginFailures++
		}
		extractErrorPattern(line, stats)
	}
	return scanner.Err()
}

func analyzeInfoLog(r io.Reader, stats *LogStats) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, "Request ") && strings.Contains(line, "Status: "):
			if m := statusRegex.FindStringSubmatch(line); m != nil {
				var code int
				fmt.Sscanf(m[1], "%d", &code)
				stats.StatusCounts[code]++
			}
		case strings.Contains(line, "Order ") && strings.Contains(line, " placed by user "):
			stats.OrdersPlaced++
		case strings.Contains(line, "Checkout rejected for user"):
			stats.CheckoutRejections++
		case strings.Contains(line, " valid for total "):
			stats.CouponsApplied++
		case rejectedRegex.MatchString(line):
			stats.CouponRejections++
			stats.CouponReasons[rejectedRegex.FindStringSubmatch(line)[1]]++
		case strings.Contains(line, "Payment ") && strings.Contains(line, " verified for gateway order "):
			stats.PaymentsVerified++
		case strings.Contains(line, "email sent for order"):
			stats.EmailsSent++
		case strings.Contains(line, "Admin login successful"):
			stats.AdminLogins++
		case strings.Contains(line, "Rate limit exceeded"):
			stats.RateLimited++
		}
	}
	return scanner.Err()
}

// extractErrorPattern groups errors by message with ids and numbers masked.
func extractErrorPattern(line string, stats *LogStats) {
	msg := line
	if m := messageRegex.FindStringSubmatch(line); m != nil {
		msg = m[1]
	}
	if i := strings.Index(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	stats.ErrorPatterns[digitsRegex.ReplaceAllString(strings.TrimSpace(msg), "N")]++
}

func printReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Log Analysis Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "\n1. Checkout:")
	fmt.Fprintf(w, "   Orders Placed: %d\n", stats.OrdersPlaced)
	fmt.Fprintf(w, "   Checkouts Rejected: %d\n", stats.CheckoutRejections)
	fmt.Fprintf(w, "   Coupons Applied: %d\n", stats.CouponsApplied)
	fmt.Fprintf(w, "   Coupons Rejected: %d\n", stats.CouponRejections)
	printTop(w, stats.CouponReasons, 5, "rejections")

	fmt.Fprintln(w, "\n2. Payments and Notifications:")
	fmt.Fprintf(w, "   Payments Verified: %d\n", stats.PaymentsVerified)
	fmt.Fprintf(w, "   Payment Verification Failures: %d\n", stats.PaymentFailures)
	fmt.Fprintf(w, "   Emails Sent: %d\n", stats.EmailsSent)
	fmt.Fprintf(w, "   Outbox Delivery Failures: %d\n", stats.DeliveryFailures)

	fmt.Fprintln(w, "\n3. Admin and Abuse:")
	fmt.Fprintf(w, "   Admin Logins: %d\n", stats.AdminLogins)
	fmt.Fprintf(w, "   Failed Admin Logins: %d\n", stats.AdminLoginFailures)
	fmt.Fprintf(w, "   Rate Limited Requests: %d\n", stats.RateLimited)

	fmt.Fprintln(w, "\n4. Responses by Status:")
	codes := make([]int, 0, len(stats.StatusCounts))
	for code := range stats.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "   %d: %d\n", code, stats.StatusCounts[code])
	}

	fmt.Fprintln(w, "\n5. Most Common Errors:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)
	printTop(w, stats.ErrorPatterns, 5, "occurrences")
}

func printTop(w io.Writer, counts map[string]int, limit int, unit string) {
	type entry struct {
		key   string
		count int
	}
	var list []entry
	for k, n := range counts {
		list = append(list, entry{k, n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].key < list[j].key
	})
	for i, e := range list {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "   %s: %d %s\n", e.key, e.count, unit)
	}
}
