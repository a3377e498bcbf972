package exec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotforge/robotforge/pkg/models"
)

func writeReport(t *testing.T, xmlBody string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "output.xml")
	require.NoError(t, os.WriteFile(path, []byte(xmlBody), 0o644))
	return path
}

func TestParseReport_PassedWhenNoFailures(t *testing.T) {
	path := writeReport(t, `<robot><statistics><total><stat pass="3" fail="0">All Tests</stat></total></statistics></robot>`)

	result, err := ParseReport(path)
	require.NoError(t, err)
	require.Equal(t, models.TestStatusPassed, result.TestStatus)
	require.Equal(t, 3, result.Passed)
	require.Equal(t, 0, result.Failed)
}

func TestParseReport_FailedWhenAnyFailures(t *testing.T) {
	path := writeReport(t, `<robot><statistics><total><stat pass="2" fail="1">All Tests</stat></total></statistics></robot>`)

	result, err := ParseReport(path)
	require.NoError(t, err)
	require.Equal(t, models.TestStatusFailed, result.TestStatus)
	require.Equal(t, 1, result.Failed)
}

func TestParseReport_FailedWhenZeroPassZeroFail(t *testing.T) {
	path := writeReport(t, `<robot><statistics><total><stat pass="0" fail="0">All Tests</stat></total></statistics></robot>`)

	result, err := ParseReport(path)
	require.NoError(t, err)
	require.Equal(t, models.TestStatusFailed, result.TestStatus)
}

func TestParseReport_LogsSummarizesSuitesTestsAndFailureMessages(t *testing.T) {
	path := writeReport(t, `<robot>
		<suite name="Dashboard">
			<suite name="Login">
				<test name="Logs in with valid credentials">
					<status status="PASS"></status>
				</test>
				<test name="Rejects bad password">
					<status status="FAIL">Element 'error-banner' not found</status>
				</test>
			</suite>
		</suite>
		<statistics><total><stat pass="1" fail="1">All Tests</stat></total></statistics>
	</robot>`)

	result, err := ParseReport(path)
	require.NoError(t, err)
	require.Contains(t, result.Logs, "Dashboard :: Login :: Logs in with valid credentials -- PASS")
	require.Contains(t, result.Logs, "Dashboard :: Login :: Rejects bad password -- FAIL")
	require.Contains(t, result.Logs, "Element 'error-banner' not found")
}

func TestParseReport_MissingStatisticsReturnsError(t *testing.T) {
	path := writeReport(t, `<robot></robot>`)

	_, err := ParseReport(path)
	require.Error(t, err)
}

func TestClassifyFallback_ExitZeroIsPassed(t *testing.T) {
	status, systemError := ClassifyFallback(0, false)
	require.Equal(t, "passed", status)
	require.False(t, systemError)
}

func TestClassifyFallback_NonZeroWithHTMLIsFailed(t *testing.T) {
	status, systemError := ClassifyFallback(1, true)
	require.Equal(t, "failed", status)
	require.False(t, systemError)
}

func TestClassifyFallback_NonZeroWithoutHTMLIsSystemError(t *testing.T) {
	status, systemError := ClassifyFallback(1, false)
	require.Equal(t, "system_error", status)
	require.True(t, systemError)
}
