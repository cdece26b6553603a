package web

// indexPage is the single-file chat UI. Keeping it inline avoids
// shipping assets next to the binary.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Helpdesk</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  h1 { font-size: 1.4rem; }
  #log { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; min-height: 240px; }
  .q { font-weight: 600; margin-top: 1rem; }
  .a { white-space: pre-wrap; margin: 0.5rem 0; }
  .refs { color: #666; font-size: 0.85rem; }
  form { display: flex; gap: 0.5rem; margin-top: 1rem; }
  input { flex: 1; padding: 0.5rem; }
  button { padding: 0.5rem 1rem; }
</style>
</head>
<body>
<h1>Helpdesk</h1>
<div id="log"></div>
<form id="form">
  <input id="question" placeholder="Ask a question…" autocomplete="off" autofocus>
  <button type="submit">Ask</button>
</form>
<script>
const log = document.getElementById("log");
const form = document.getElementById("form");
const input = document.getElementById("question");

form.addEventListener("submit", async (e) => {
  e.preventDefault();
  const question = input.value.trim();
  if (!question) return;
  input.value = "";

  const q = document.createElement("div");
  q.className = "q";
  q.textContent = question;
  log.appendChild(q);

  try {
    const res = await fetch("/api/chat", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ question }),
    });
    const data = await res.json();

    const a = document.createElement("div");
    a.className = "a";
    a.textContent = res.ok ? data.answer : (data.error || "request failed");
    log.appendChild(a);

    if (res.ok && data.references && data.references.length) {
      const refs = document.createElement("div");
      refs.className = "refs";
      refs.textContent = "Sources: " + data.references.map(r => r.citation).join(", ");
      log.appendChild(refs);
    }
  } catch (err) {
    const a = document.createElement("div");
    a.className = "a";
    a.textContent = "request failed: " + err;
    log.appendChild(a);
  }
  log.scrollTop = log.scrollHeight;
});
</script>
</body>
</html>
`
