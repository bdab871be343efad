package html

import "fmt"

const (
	CSRFCookieName = "X-CSRF-Token"
	CSRFFormField  = "_csrf"
)

// CSRFFormScript exposes the double-submit token as window.odinCSRF() and
// adds it as a hidden field to plain POST forms. Forms marked data-json-form
// are sent by editor.js with the header instead.
func CSRFFormScript() string {
	return fmt.Sprintf(`<script>
(function () {
  window.odinCSRF = function () {
    var m = document.cookie.match(/(?:^|;\s*)%[1]s=([^;]*)/);
    return m ? decodeURIComponent(m[1]) : "";
  };
  function addField() {
    var token = window.odinCSRF();
    if (!token) return;
    document.querySelectorAll("form[method=POST]:not([data-json-form])").forEach(function (form) {
      if (form.elements["%[2]s"]) return;
      var input = document.createElement("input");
      input.type = "hidden";
      input.name = "%[2]s";
      input.value = token;
      form.appendChild(input);
    });
  }
  if (document.readyState === "loading") document.addEventListener("DOMContentLoaded", addField);
  else addField();
})();
</script>`, CSRFCookieName, CSRFFormField)
}
