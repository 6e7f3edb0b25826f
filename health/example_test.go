package health_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/svchealth/health"
)

func ExampleMonitor() {
	m := health.NewMonitor(health.MonitorConfig{})
	_ = m.RegisterService("chat", health.Static(true, true))
	_ = m.RegisterService("pdf", health.ServiceFuncs{
		Healthy: func(context.Context) (bool, error) {
			return false, errors.New("OCR quota exceeded")
		},
	})

	summary := m.GetHealthSummary(context.Background())
	fmt.Println(summary.Status)
	fmt.Printf("%d/%d healthy\n", summary.HealthyServices, summary.TotalServices)
	for _, issue := range summary.CriticalIssues {
		fmt.Println(issue)
	}
	// Output:
	// degraded
	// 1/2 healthy
	// pdf: OCR quota exceeded
}

func ExampleOverallStatus() {
	results := []health.Result{
		{Service: "chat", Status: health.StatusHealthy},
		{Service: "pdf", Status: health.StatusUnhealthy},
		{Service: "drive", Status: health.StatusUnhealthy},
	}
	fmt.Println(health.OverallStatus(results))
	// Output: unhealthy
}

func ExampleDeriveStatus() {
	fmt.Println(health.DeriveStatus(true, false, nil))
	fmt.Println(health.DeriveStatus(false, true, nil))
	// Output:
	// degraded
	// unhealthy
}

func ExampleMonitor_CheckServiceHealth_notRegistered() {
	m := health.NewMonitor(health.MonitorConfig{})
	r := m.CheckServiceHealth(context.Background(), "calendar")
	fmt.Println(r.Status, r.Error)
	// Output: unhealthy Service not registered
}
