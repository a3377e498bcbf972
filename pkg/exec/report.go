package exec

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/robotforge/robotforge/pkg/models"
)

// robotOutput mirrors the slice of Robot Framework's output.xml this
// package needs: the suite/test tree (for a human-readable log summary)
// and the aggregate pass/fail counts under statistics/total/stat.
type robotOutput struct {
	XMLName    xml.Name   `xml:"robot"`
	Suite      robotSuite `xml:"suite"`
	Statistics struct {
		Total struct {
			Stats []robotStat `xml:"stat"`
		} `xml:"total"`
	} `xml:"statistics"`
}

// robotSuite is one <suite> element. Suites nest arbitrarily deep; tests
// only ever appear as direct children of the innermost suite.
type robotSuite struct {
	Name   string       `xml:"name,attr"`
	Suites []robotSuite `xml:"suite"`
	Tests  []robotTest  `xml:"test"`
	Status robotStatus  `xml:"status"`
}

type robotTest struct {
	Name   string      `xml:"name,attr"`
	Status robotStatus `xml:"status"`
}

// robotStatus is a <status status="PASS|FAIL" .../> element. Robot
// Framework puts a failed test's error message in the element's text
// content, not a separate attribute.
type robotStatus struct {
	Status  string `xml:"status,attr"`
	Message string `xml:",chardata"`
}

type robotStat struct {
	Pass int `xml:"pass,attr"`
	Fail int `xml:"fail,attr"`
}

// ParseReport reads the XML report at path and classifies the run's
// result per statistics/total/stat: fail=0 and pass>0 is "passed",
// otherwise "failed". Logs is a human-readable summary of every test
// encountered (suite path, name, status, and failure message, if any),
// built by walking the suite tree — the raw XML itself is not something
// an agent or a human should have to read to learn why a run failed.
func ParseReport(path string) (*models.ExecutionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("exec: read report: %w", err)
	}

	var out robotOutput
	if err := xml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("exec: parse report: %w", err)
	}
	if len(out.Statistics.Total.Stats) == 0 {
		return nil, fmt.Errorf("exec: report has no statistics/total/stat element")
	}

	stat := out.Statistics.Total.Stats[0]
	status := models.TestStatusFailed
	if stat.Fail == 0 && stat.Pass > 0 {
		status = models.TestStatusPassed
	}

	return &models.ExecutionResult{
		TestStatus: status,
		Passed:     stat.Pass,
		Failed:     stat.Fail,
		Total:      stat.Pass + stat.Fail,
		Report:     path,
		Logs:       summarizeSuite(out.Suite, nil),
	}, nil
}

// summarizeSuite recursively renders suite.path's tests as "suite ::
// test -- STATUS" lines, appending a failure message line (indented)
// when one is present, and recurses into nested suites.
func summarizeSuite(suite robotSuite, path []string) string {
	path = append(path, suite.Name)
	suitePath := strings.Join(path, " :: ")

	var sb strings.Builder
	for _, test := range suite.Tests {
		fmt.Fprintf(&sb, "%s :: %s -- %s\n", suitePath, test.Name, test.Status.Status)
		if msg := strings.TrimSpace(test.Status.Message); msg != "" {
			fmt.Fprintf(&sb, "    %s\n", msg)
		}
	}
	for _, child := range suite.Suites {
		sb.WriteString(summarizeSuite(child, path))
	}
	return sb.String()
}

// ClassifyFallback applies the no-XML fallback policy: exit code 0 is
// "passed", non-zero with an HTML report present is "failed", and
// anything else is a system error the caller should surface with its own
// message.
func ClassifyFallback(exitCode int, htmlReportPresent bool) (status string, systemError bool) {
	switch {
	case exitCode == 0:
		return models.TestStatusPassed, false
	case htmlReportPresent:
		return models.TestStatusFailed, false
	default:
		return models.TestStatusSystemError, true
	}
}
