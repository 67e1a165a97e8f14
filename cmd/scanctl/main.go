package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/amazon11335/fraudwatch/internal/analyzer"
	"github.com/amazon11335/fraudwatch/internal/config"
	"github.com/amazon11335/fraudwatch/internal/detector"
	"github.com/amazon11335/fraudwatch/internal/taxonomy"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func main() {
	godotenv.Load()

	jsonOut := flag.Bool("json", false, "emit the full report as JSON")
	flag.Parse()

	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	tax := taxonomy.New()
	if err := tax.LoadDir(cfg.Taxonomy.Directory, logger); err != nil {
		fmt.Fprintf(os.Stderr, "warning: category overlays not loaded: %v\n", err)
	}
	det := detector.New(tax)
	adv := analyzer.NewAdvanced()

	// One-shot mode: scan the argument text and exit.
	if flag.NArg() > 0 {
		scan(strings.Join(flag.Args(), " "), det, adv, *jsonOut)
		return
	}

	fmt.Println(colorCyan + colorBold + `
╔═══════════════════════════════════════════════════════════╗
║          FRAUDWATCH - Interactive Risk Scanner            ║
║          Paste text to score its fraud risk               ║
║          Type 'exit' or 'quit' to exit                    ║
╚═══════════════════════════════════════════════════════════╝` + colorReset)
	fmt.Println()
	fmt.Printf("%s[✓] %d categories loaded%s\n", colorGreen, len(tax.Categories()), colorReset)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("%s%s> %s", colorBold, colorBlue, colorReset)

		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		scan(text, det, adv, *jsonOut)
		fmt.Println()
	}
}

func scan(text string, det *detector.Detector, adv *analyzer.Advanced, jsonOut bool) {
	detection := det.Detect(text)
	report := adv.Report(text, detection)

	if jsonOut {
		out := map[string]any{
			"detection": detection,
			"analysis":  report,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}

	printReport(detection, report)
}

func printReport(detection *detector.DetectionResult, report *analyzer.Report) {
	fmt.Println()

	levelColor := colorGreen
	switch detection.RiskLevel {
	case detector.LevelCritical, detector.LevelHigh:
		levelColor = colorRed
	case detector.LevelMedium:
		levelColor = colorYellow
	}
	fmt.Printf("%s%s  %s RISK  %s\n", colorBold, levelColor, strings.ToUpper(string(detection.RiskLevel)), colorReset)
	fmt.Println()

	fmt.Printf("%s┌─ Detection ────────────────────────────────────────%s\n", colorYellow, colorReset)
	fmt.Printf("│ Score:      %.0f\n", detection.TotalScore)
	for _, cat := range detection.Categories {
		fmt.Printf("│ Category:   %s (%.0f)\n", cat.Name, cat.Score)
	}
	if len(detection.Keywords) > 0 {
		fmt.Printf("│ Keywords:   %s\n", strings.Join(detection.Keywords, ", "))
	}
	fmt.Printf("%s└────────────────────────────────────────────────────%s\n", colorYellow, colorReset)

	fmt.Printf("%s┌─ Analysis ─────────────────────────────────────────%s\n", colorCyan, colorReset)
	fmt.Printf("│ Final Score: %d (%d%% confidence)\n", report.FinalScore, report.Confidence)
	fmt.Printf("│ Level:       %s\n", report.RiskLevel)
	fmt.Printf("│ Advice:      %s\n", report.Recommendation)
	for _, factor := range report.RiskFactors {
		fmt.Printf("│ · %s\n", factor)
	}
	fmt.Printf("%s└────────────────────────────────────────────────────%s\n", colorCyan, colorReset)

	for _, s := range detection.Suggestions {
		fmt.Printf("  %s•%s %s\n", colorBold, colorReset, s)
	}
}
